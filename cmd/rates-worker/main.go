package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"wallet/internal/amqp"
	"wallet/internal/config"
	applog "wallet/internal/log"
	"wallet/internal/rates"
	"wallet/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New("rates-worker", applog.ParseLevel(cfg.LogLevel))
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	updater := rates.NewUpdater(rates.NewClient(cfg.RatesFeedURL), repo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Pull fresh rates once at startup so a new deployment does not wait
	// for the first tick.
	if err := updater.Refresh(ctx); err != nil {
		logger.Warn("Startup rate refresh failed", "error", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeRateRefresh(ctx, func(msg *amqp.RateRefreshMessage) error {
			return updater.Refresh(ctx)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.RatesInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := updater.Refresh(ctx); err != nil {
					logger.Error("Scheduled rate refresh failed", "error", err)
				}
			}
		}
	})

	logger.Info("Rates worker started",
		"queue", cfg.AMQPQueue,
		"interval", cfg.RatesInterval.String())

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Rates worker stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Rates worker stopped gracefully")
}
