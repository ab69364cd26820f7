package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"wallet/internal/amqp"
	"wallet/internal/config"
	apphttp "wallet/internal/http"
	applog "wallet/internal/log"
	"wallet/internal/services"
	"wallet/internal/storage"
)

func main() {
	// Load .env for local development (ignore errors in production/docker).
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New("wallet", applog.ParseLevel(cfg.LogLevel))
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

	// AMQP is optional: without it the manual rate refresh endpoint is off
	// but everything else works.
	var ratePublisher apphttp.RatePublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, rate refresh requests disabled", "error", err)
		} else {
			defer amqpClient.Close()
			ratePublisher = amqpClient
		}
	}

	ledger := services.NewLedgerService(repo, cfg.BaseCurrencyCode)
	accounts := services.NewAccountService(repo, cfg.BaseCurrencyCode)
	savings := services.NewSavingsService(repo, cfg.BaseCurrencyCode)
	reports := services.NewReportService(repo, cfg.BaseCurrencyCode, cfg.DashboardWindow)
	registry := services.NewRegistryService(repo)

	srv := apphttp.NewServer(":"+cfg.Port, ledger, accounts, savings, reports, registry, ratePublisher)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting wallet server",
		"port", cfg.Port,
		"db", cfg.SQLiteDBPath,
		"base_currency", cfg.BaseCurrencyCode)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
