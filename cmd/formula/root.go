package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/formula/internal/config"
)

var (
	configPath string
	locale     string
	digits     int
	maxDepth   int
	givens     []string
	defines    []string
)

var rootCmd = &cobra.Command{
	Use:   "formula",
	Short: "Evaluate, differentiate, and integrate formulas",
	Long: `formula evaluates formulas such as "sum(i, 1, n, i^2)" and computes their
derivatives and antiderivatives.

Numbers are displayed and read in the configured locale. Settings come from
the config file ($XDG_CONFIG_HOME/formula/config.toml unless --config is
given) and are overridden by flags.

Examples:
  formula eval "2^10"
  formula eval --given n=10 "sum(i, 1, n, i^2)"
  formula eval --define "f(x) = 3*x + 5" "f(2)"
  formula derive x "x^3/2 - x"
  formula repl --locale de`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file")
	pf.StringVar(&locale, "locale", "", "locale for numbers, e.g. de-CH")
	pf.IntVar(&digits, "digits", -1, "most fraction digits to display, -1 for all")
	pf.IntVar(&maxDepth, "max-depth", 0, "nesting limit for brackets and calls")
	pf.StringArrayVarP(&givens, "given", "g", nil, "name=value variable definition (any number of times)")
	pf.StringArrayVarP(&defines, "define", "D", nil, "function declaration like 'f(x)=x^2' (any number of times)")
}

func execute() int {
	if err := rootCmd.Execute(); err != nil {
		log.Print(describe(err))
		return 1
	}
	return 0
}

// loadConfig reads the config file and applies the flags over it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("locale") {
		cfg.Locale = locale
	}
	if flags.Changed("digits") {
		cfg.Digits = digits
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = maxDepth
	}
	cfg.Functions = append(cfg.Functions, defines...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// sessionFor creates the session for a command from the config and flags.
// Variables given by flags are bound after those in the config, in order.
func sessionFor(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	s, err := newSession(cfg)
	if err != nil {
		return nil, err
	}
	for _, g := range givens {
		name, val, ok := strings.Cut(g, "=")
		if !ok {
			return nil, fmt.Errorf(`variable definitions must be "name=value", not %q`, g)
		}
		if err := s.let(strings.TrimSpace(name), strings.TrimSpace(val)); err != nil {
			return nil, fmt.Errorf("setting %s: %w", strings.TrimSpace(name), err)
		}
	}
	return s, nil
}
