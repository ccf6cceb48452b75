// Package config provides configuration management for tempa using Viper.
//
// Settings are resolved from command-line flags, environment variables with
// the TEMPA_ prefix, and an optional .tempa.yml file, in that order of
// precedence. The package owns validation of the run configuration before
// any filesystem work starts.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dbrafael/tempa/internal/errors"
)

// DefaultDelimiter is used for both delimiters when neither is configured.
const DefaultDelimiter = "%"

type Config struct {
	Input        string          `yaml:"input"`
	Output       string          `yaml:"output"`
	Replacements string          `yaml:"replacements"`
	Delimiters   DelimiterConfig `yaml:"delimiters"`
	Force        bool            `yaml:"force"`
	Strict       bool            `yaml:"strict"`
	Watch        WatchConfig     `yaml:"watch"`
	Log          LogConfig       `yaml:"log"`
}

type DelimiterConfig struct {
	Open  string `yaml:"open"`
	Close string `yaml:"close"`
}

type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// BindFlags viper-binds the generate command's flags so flag values override
// config file and environment settings.
func BindFlags(flags *pflag.FlagSet) error {
	bindings := map[string]string{
		"input":            "input",
		"output":           "output",
		"replacements":     "replacements",
		"delimiters.open":  "open",
		"delimiters.close": "close",
		"force":            "force",
		"strict":           "strict",
		"watch.enabled":    "watch",
	}
	for key, flag := range bindings {
		if f := flags.Lookup(flag); f != nil {
			if err := viper.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load builds a Config from all viper sources and applies defaults.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Delimiters.Open == "" {
		config.Delimiters.Open = DefaultDelimiter
	}
	// the close delimiter defaults to the open one
	if config.Delimiters.Close == "" {
		config.Delimiters.Close = config.Delimiters.Open
	}

	if config.Watch.Debounce <= 0 {
		config.Watch.Debounce = 300 * time.Millisecond
	}

	if config.Log.Level == "" {
		config.Log.Level = viper.GetString("log-level")
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}

	return &config, nil
}

// Validate checks that the configuration describes a runnable generation.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.NewConfigError("input directory is required")
	}
	if c.Output == "" {
		return errors.NewConfigError("output directory is required")
	}
	if c.Replacements == "" {
		return errors.NewConfigError("replacements file is required")
	}

	info, err := os.Stat(c.Input)
	if err != nil {
		return errors.NewConfigError("input directory " + c.Input + " is not accessible")
	}
	if !info.IsDir() {
		return errors.NewConfigError("input path " + c.Input + " is not a directory")
	}

	if isSubPath(c.Input, c.Output) {
		return errors.NewConfigError("output directory must not be inside the input directory")
	}

	if c.Delimiters.Open == "" || c.Delimiters.Close == "" {
		return errors.NewConfigError("delimiters must be non-empty")
	}

	return nil
}

// isSubPath reports whether child is lexically inside parent.
func isSubPath(parent, child string) bool {
	parentAbs, err := filepath.Abs(parent)
	if err != nil {
		return false
	}
	childAbs, err := filepath.Abs(child)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(parentAbs, childAbs)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
