package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/formula/internal/config"
)

var configWrite bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or save the effective settings",
	Long: `Print the settings that result from the config file and flags, in the
config file's TOML format. With --write, save them to the config file instead.

Examples:
  formula config
  formula config --locale de --digits 2 --write`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&configWrite, "write", false, "save the settings to the config file")
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// Check that the settings make a working session before showing them.
	if _, err := newSession(cfg); err != nil {
		return err
	}
	if !configWrite {
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
	}
	path := configPath
	if path == "" {
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
	return nil
}
