package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iudanet/tvsync/internal/config"
	"github.com/iudanet/tvsync/internal/lease"
	"github.com/iudanet/tvsync/internal/server"
	"github.com/iudanet/tvsync/internal/server/storage"
	"github.com/iudanet/tvsync/internal/server/storage/sqlite"
	"github.com/iudanet/tvsync/internal/syncstate"
)

var (
	// Version information set via ldflags during build
	Version   = "2.0.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			config.PrintUsage(os.Stderr)
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		return err
	}

	if cfg.ShowVersion {
		printVersion()
		return nil
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := syncstate.New()
	elector := lease.New(store,
		lease.WithTimeout(cfg.LeaseTimeout),
		lease.WithLogger(logger),
	)

	// Журнал лидерства опционален; интерфейсная переменная остается nil, если он выключен
	var journal storage.LeaderJournal
	if cfg.JournalDSN != "" {
		db, err := sqlite.New(ctx, cfg.JournalDSN)
		if err != nil {
			return fmt.Errorf("failed to open leadership journal: %w", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("failed to close journal", "error", err)
			}
		}()
		journal = db
		logger.Info("Leadership journal enabled", "dsn", cfg.JournalDSN)
	}

	srv := server.New(logger, server.Options{
		StartedAt:       time.Now(),
		Journal:         journal,
		Store:           store,
		Elector:         elector,
		Leaders:         store,
		Addr:            cfg.Addr(),
		Version:         Version,
		ShutdownTimeout: cfg.ShutdownTimeout,
		RateLimit:       cfg.RateLimit,
	})

	logger.Info("TradingView Sync Server starting",
		"version", Version,
		"addr", cfg.Addr(),
		"lease_timeout", cfg.LeaseTimeout,
		"rate_limit", cfg.RateLimit,
	)

	return srv.Run(ctx)
}

func printVersion() {
	fmt.Printf("TradingView Sync Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
