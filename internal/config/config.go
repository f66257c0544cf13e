// Package config loads settings for the formula command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/zephyrtronium/formula"
)

// Config holds the settings of a formula session.
type Config struct {
	// Locale is the BCP 47 name of the locale for displaying and reading
	// numbers, e.g. "de-CH".
	Locale string `toml:"locale"`

	// Digits is the most fraction digits to display, or -1 for as many as
	// the value needs.
	Digits int `toml:"digits"`

	// MaxDepth limits the nesting of brackets and calls in formulas.
	MaxDepth int `toml:"max_depth"`

	// Vars binds variables before any formula is evaluated. Each value is a
	// number written for the locale or a formula over the variables that
	// sort before it.
	Vars map[string]string `toml:"vars,omitempty"`

	// Functions holds declarations such as "f(x) = 3*x + 5". Each may call
	// the functions declared before it.
	Functions []string `toml:"functions,omitempty"`
}

// Default returns the settings used when there is no config file.
func Default() *Config {
	return &Config{
		Locale:   "en",
		Digits:   -1,
		MaxDepth: formula.DefaultMaxDepth,
	}
}

// DefaultPath returns the location of the user's config file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "formula", "config.toml"), nil
}

// Load reads a config file. Settings missing from the file keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault reads the user's config file if there is one and returns the
// defaults otherwise.
func LoadDefault() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks the settings that can be checked without building a
// session.
func (c *Config) Validate() error {
	if c.Digits < -1 {
		return fmt.Errorf("digits must be -1 or more, not %d", c.Digits)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, not %d", c.MaxDepth)
	}
	return nil
}

// Format creates the number format for the configured locale.
func (c *Config) Format() (*formula.Format, error) {
	f, err := formula.ParseFormat(c.Locale, c.Digits)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", c.Locale, err)
	}
	return f, nil
}

// VarNames returns the names in Vars in the order they are bound.
func (c *Config) VarNames() []string {
	names := make([]string, 0, len(c.Vars))
	for k := range c.Vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Save writes the config to path, creating its directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
