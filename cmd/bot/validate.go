package main

import (
	"fmt"

	"homework_status_bot/internal/infra/config"
	"homework_status_bot/internal/infra/scheduler"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration without starting the bot",
	Long: `Load configuration from the environment, .env and the optional YAML
file, check it, and print a summary. Tokens are never printed.

Exit codes:
  0 - configuration is valid
  1 - configuration is invalid (details on stderr)`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := scheduler.NewSchedule(cfg.PollCronSpec, cfg.RetryTime); err != nil {
		return fmt.Errorf("invalid config: %w: %w", config.ErrConfiguration, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Config is valid!")
	fmt.Fprintf(out, "  Endpoint:        %s\n", cfg.PracticumEndpoint)
	fmt.Fprintf(out, "  Chat ID:         %d\n", cfg.TelegramChatID)
	if cfg.PollCronSpec != "" {
		fmt.Fprintf(out, "  Poll schedule:   %s\n", cfg.PollCronSpec)
	} else {
		fmt.Fprintf(out, "  Poll interval:   %s\n", cfg.RetryTime)
	}
	fmt.Fprintf(out, "  Request timeout: %s\n", cfg.RequestTimeout)
	if cfg.HealthAddr != "" {
		fmt.Fprintf(out, "  Health endpoint: %s/healthz\n", cfg.HealthAddr)
	}
	return nil
}
