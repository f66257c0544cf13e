// formula evaluates, differentiates, and integrates formulas.
package main

import (
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	os.Exit(execute())
}
