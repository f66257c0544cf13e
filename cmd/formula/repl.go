package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/formula"
)

const (
	historyFile = ".formula_history"
	promptMain  = "> "
	promptCont  = ". "
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Evaluate formulas interactively",
	Long: `Start an interactive session. Each line is a formula to evaluate, or a
command starting with ':'. Type :help for the commands. A formula with an
unclosed bracket continues on the next line.

History is kept in ~/` + historyFile + `.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	s, err := sessionFor(cmd)
	if err != nil {
		return err
	}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(func(line string) []string {
		// Complete the last word of the line.
		k := strings.LastIndexFunc(line, func(r rune) bool {
			return !(r == ':' || r == '_' || r == '.' || isWordRune(r))
		})
		head, word := line[:k+1], line[k+1:]
		c := s.completions(word)
		for i := range c {
			c[i] = head + c[i]
		}
		return c
	})

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	out := cmd.OutOrStdout()
	for {
		line, ok := readFormula(ln)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(line, "\n", " "))
		r, err := s.exec(line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(out, describe(err))
			continue
		}
		if r != "" {
			fmt.Fprintln(out, r)
		}
	}
}

// readFormula reads lines until the input has no unclosed brackets. The
// result is false at the end of input or when the prompt is aborted.
func readFormula(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(line)
		if !unclosed(b.String()) {
			return b.String(), true
		}
	}
}

// unclosed reports whether src fails to parse only for want of a closing
// bracket.
func unclosed(src string) bool {
	if strings.HasPrefix(strings.TrimSpace(src), ":") {
		return false
	}
	_, err := formula.Parse(src)
	var be *formula.BracketError
	return errors.As(err, &be) && be.Left != "" && be.Right == ""
}

func isWordRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r > 0x7f
}
