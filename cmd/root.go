// Package cmd provides the command-line interface for tempa with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration with clear precedence:
//	1. Command-line flags (--input, --open, etc.) - highest priority
//	2. TEMPA_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (TEMPA_INPUT, TEMPA_DELIMITERS_OPEN, ...)
//	4. Configuration files (.tempa.yml) - lowest priority
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tempa",
	Short: "Scaffold a project from a placeholder-template directory tree",
	Long: `tempa clones a template directory into a new project directory,
rewriting placeholders of the form <open>dotted.key.path<close> in every text
file using values from a YAML replacement document. Files that are not valid
text are copied byte-for-byte.

Quick Start:
  tempa generate -i ./template -o ./myproject -r replacements.yaml
  tempa plan -i ./template -o ./myproject     Preview pending operations
  tempa version                               Show version information

Command Aliases (for faster typing):
  generate (g, gen), plan (p)`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .tempa.yml, can also use TEMPA_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. TEMPA_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .tempa.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("TEMPA_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tempa")
	}

	// Enable automatic environment variable binding with TEMPA_ prefix
	// Examples: TEMPA_INPUT, TEMPA_OUTPUT, TEMPA_DELIMITERS_OPEN
	viper.SetEnvPrefix("TEMPA")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing or malformed config file falls back to defaults silently
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
