// Snippetgen renders ready-to-paste code examples for producing to and
// consuming from a Memphis station.
//
// Usage:
//
//	snippetgen [command] [flags]
//
// Running without arguments launches the interactive form.
// See 'snippetgen --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-snippetgen/internal/config"
	"github.com/goliatone/go-snippetgen/internal/logging"
	"github.com/goliatone/go-snippetgen/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var (
	configPath string
	logLevel   string

	// cfg is the file configuration merged with SNIPPETGEN_* overrides.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "snippetgen",
	Short: "Code examples for Memphis stations",
	Long: `Render producer and consumer code examples for the Memphis SDKs and
the REST gateway, filled with your station, credentials and options.

If no command is specified, the interactive form will launch automatically.`,
	Version:           version.Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd, args)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "Path to the settings file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent when empty")

	rootCmd.AddCommand(versionCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadWithEnv(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	level := logLevel
	if level == "" {
		level = cfg.LogLevel
	}
	return logging.Initialize(level)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "snippetgen %s\n", version.Full())
	},
}
