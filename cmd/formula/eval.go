package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/formula/internal/style"
)

var evalEcho bool

var evalCmd = &cobra.Command{
	Use:   "eval [EXPR...]",
	Short: "Evaluate formulas",
	Long: `Evaluate each formula and print its value. With no arguments, each line of
standard input is a formula.

Examples:
  formula eval "1 + 2" "if(3 > 2, 1, 0)"
  formula eval --locale de --given "x=1,5" "x * 2"
  echo "exp(1)" | formula eval`,
	RunE: runEval,
}

var deriveCmd = &cobra.Command{
	Use:   "derive VAR EXPR...",
	Short: "Differentiate formulas",
	Long: `Print the derivative of each formula with respect to the variable VAR.

Comparisons, logical operators, if, and functions without a differentiation
rule cannot be differentiated.

Examples:
  formula derive x "x^3/2 - x"
  formula derive t --define "f(x) = exp(2*x)" "f(t)"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCalculus,
}

var integrateCmd = &cobra.Command{
	Use:   "integrate VAR EXPR...",
	Short: "Find antiderivatives of formulas",
	Long: `Print an antiderivative of each formula with respect to the variable VAR,
without a constant of integration.

Examples:
  formula integrate x "3*x^2 + 1"
  formula integrate x "sum(i, 1, n, i*x)"`,
	Args: cobra.MinimumNArgs(2),
	// RunE is set in init: runCalculus refers to integrateCmd.
}

func init() {
	integrateCmd.RunE = runCalculus
	rootCmd.AddCommand(evalCmd, deriveCmd, integrateCmd)
	evalCmd.Flags().BoolVar(&evalEcho, "echo", false, "print each formula before its value")
}

func runEval(cmd *cobra.Command, args []string) error {
	s, err := sessionFor(cmd)
	if err != nil {
		return err
	}
	srcs := args
	if len(srcs) == 0 {
		srcs, err = readLines(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}
	out := cmd.OutOrStdout()
	for _, src := range srcs {
		e, v, err := s.eval(src)
		if err != nil {
			return err
		}
		if evalEcho {
			fmt.Fprintf(out, "%s = ", e)
		}
		fmt.Fprintln(out, style.Render(style.Result, v.String()))
	}
	return nil
}

func runCalculus(cmd *cobra.Command, args []string) error {
	s, err := sessionFor(cmd)
	if err != nil {
		return err
	}
	op := s.derive
	if cmd == integrateCmd {
		op = s.integrate
	}
	out := cmd.OutOrStdout()
	for _, src := range args[1:] {
		r, err := op(args[0], src)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, style.Render(style.Result, r.String()))
	}
	return nil
}

// readLines reads the non-blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}
