// Package main is the entry point for the homework status bot.
//
// Usage:
//
//	bot [run] [-c config.yaml]     # Poll Practicum and notify Telegram
//	bot validate [-c config.yaml]  # Check configuration and exit
//	bot version                    # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "bot",
	Short: "Telegram notifications about Practicum homework reviews",
	Long: `The bot polls the Practicum homework status API and sends a Telegram
message every time the review status of the latest homework changes.

Required environment (or .env / YAML config):
  PRACTICUM_TOKEN   OAuth token for the Practicum API
  TELEGRAM_TOKEN    Telegram bot token
  TELEGRAM_CHAT_ID  chat that receives notifications`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bot %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to an optional YAML config file")
}
