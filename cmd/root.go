// Package cmd provides the command-line interface for kelas.
//
// Configuration is read from, in order of precedence:
//
//  1. Command-line flags (--config, --log-level, ...)
//  2. KELAS_CONFIG_FILE: path to a custom configuration file
//  3. Individual environment variables (KELAS_SERVER_PORT, ...), also
//     read from a .env file in the working directory
//  4. The configuration file .kelas.yml
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kelas-internasional/kelas/internal/config"
	"github.com/kelas-internasional/kelas/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kelas",
	Short: "Content pipeline and site server for the class website",
	Long: `kelas compiles the class website content (blog posts and member
profiles written in MDX) and serves the site.

Quick Start:
  kelas validate                  Check every document without writing
  kelas build                     Compile content to .kelas/
  kelas build --html              Also export the site as static HTML
  kelas serve                     Serve the site with live reload
  kelas list -o json              List documents`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .kelas.yml, can also use KELAS_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig selects the configuration file and enables environment
// overrides.
func initConfig() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv(config.EnvPrefix + "_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".kelas")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger creates the logger described by cfg.
func newLogger(cfg *config.Config) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	}), nil
}
