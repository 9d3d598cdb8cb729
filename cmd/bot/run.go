package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/infra/config"
	"homework_status_bot/internal/infra/health"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"
	"homework_status_bot/internal/infra/telegram"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start polling and sending notifications",
	RunE:  runBot,
}

func init() {
	rootCmd.AddCommand(runCmd)
	// A bare "bot" invocation starts polling.
	rootCmd.RunE = runBot
}

func runBot(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("could not load application configuration: %w", err)
	}

	logCloser := logger.Init(cfg)
	defer logCloser.Close()
	mainLogger := logger.Component("main")
	mainLogger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"retry_time":  cfg.RetryTime.String(),
		"cron_spec":   cfg.PollCronSpec,
	}).Info("Configuration loaded")

	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.RequestTimeout)
	if err != nil {
		mainLogger.WithError(err).Error("Could not create Telegram bot")
		return err
	}
	telegramClient := telegram.NewTelebotAdapter(bot)

	practicumClient := practicum.NewClient(cfg.PracticumEndpoint, cfg.PracticumToken, cfg.RequestTimeout)
	defer practicumClient.Close()

	schedule, err := scheduler.NewSchedule(cfg.PollCronSpec, cfg.RetryTime)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrConfiguration, err)
	}
	pacer := scheduler.NewPollPacer(schedule, logger.Component("scheduler"))

	notifier := app.NewNotifier(telegramClient, cfg.TelegramChatID, logger.Component("notifier"))
	loop := app.NewPollLoop(practicumClient, notifier, pacer, logger.Component("poll_loop"))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.HealthAddr != "" {
		if logger.Log.GetLevel() < logrus.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}
		healthServer := health.NewServer(cfg.HealthAddr, loop, logger.Component("health"))
		healthServer.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := healthServer.Shutdown(shutdownCtx); err != nil {
				mainLogger.WithError(err).Warn("Health server shutdown failed")
			}
		}()
	}

	if cfg.EnableCommands {
		telegram.RegisterBotCommands(bot, cfg.TelegramChatID, loop, logger.Component("telegram"))
		// Start bot in a goroutine so it doesn't block the poll loop
		go bot.Start()
		defer bot.Stop()
		mainLogger.Info("Chat command handlers registered.")
	}

	mainLogger.Info("Application setup complete. Poll loop is starting...")
	err = loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		mainLogger.Info("Application shut down gracefully.")
		return nil
	}
	return err
}
