// Package cli implements the hub command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/deadside-ru/hub/pkg/logging"
	"github.com/deadside-ru/hub/pkg/version"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "hub",
	Short: "Command-line client for the DEADSIDE Россия community hub",
	Long: `hub connects to the DEADSIDE Россия community backend: account
management, text and voice channels, community events, and live server
status, all from the terminal.

Quick start:
  hub register        # create an account
  hub login           # sign in (the credential is stored locally)
  hub chat            # join the community chat
  hub status          # game server health`,
	Version: version.Full(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		settings := loadSettings()
		level := settings.LogLevel
		if logLevel != "" {
			level = logLevel
		}
		format := settings.LogFormat
		if logFormat != "" {
			format = logFormat
		}
		return logging.Setup(logging.Options{Level: level, Format: format, Output: os.Stderr})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Backend base URL (overrides settings.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: "+logging.LevelNames())
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	rootCmd.AddCommand(versionCmd)
}
