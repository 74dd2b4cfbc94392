package main

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/api"
	"fintrack/internal/bot"
	"fintrack/internal/cli"
	"fintrack/internal/session"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting fintrack-bot")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.BotToken == "" {
		logger.Error("BOT_TOKEN is required")
		os.Exit(1)
	}

	// Sessions survive restarts when a store path is configured.
	var store session.Store
	if cfg.SessionStorePath != "" {
		boltStore, err := session.NewBoltStore(cfg.SessionStorePath)
		if err != nil {
			logger.Error("Failed to open session store", "error", err, "path", cfg.SessionStorePath)
			os.Exit(1)
		}
		defer boltStore.Close()
		store = boltStore
		logger.Info("Using persistent session store", "path", cfg.SessionStorePath)
	} else {
		store = session.NewMemoryStore()
		logger.Info("Using in-memory session store")
	}

	client := api.NewClient(cfg.APIBaseURL)
	sessions := session.NewManager(store, bot.NewRecorder(client), cfg.SessionTTL)

	b, err := bot.New(cfg.BotToken, client, sessions, cfg.DashboardURL)
	if err != nil {
		logger.Error("Failed to initialize bot", "error", err)
		os.Exit(1)
	}

	ctx, cancel := cli.NotifyContext()
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return b.Run(ctx)
	})
	group.Go(func() error {
		sessions.Run(ctx)
		return nil
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		logger.Error("Bot stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Bot stopped gracefully")
}
