package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iudanet/tvsync/internal/client/api"
	"github.com/iudanet/tvsync/internal/client/cli"
	"github.com/iudanet/tvsync/internal/client/iocli"
	"github.com/iudanet/tvsync/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// app общие зависимости команд, создаются в PersistentPreRunE
type app struct {
	cli       *cli.Cli
	storage   *boltdb.Storage
	logger    *slog.Logger
	serverURL string
	dbPath    string
	verbose   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "tvsync",
		Short:         "TradingView Sync client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// version работает без базы
			if cmd.Name() == "version" {
				return nil
			}
			return a.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.serverURL, "server", "http://localhost:3000", "Server URL")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "tvsync-client.db", "Path to local database")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(
		newIDCmd(a),
		newHealthCmd(a),
		newInfoCmd(a),
		newStateCmd(a),
		newSetCmd(a),
		newClaimCmd(a),
		newHistoryCmd(a),
		newRunCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

func (a *app) open(ctx context.Context) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	storage, err := boltdb.New(ctx, a.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	a.storage = storage
	a.cli = cli.New(api.NewClient(a.serverURL), storage, iocli.NewStdio())
	return nil
}

func (a *app) close() error {
	if a.storage == nil {
		return nil
	}
	err := a.storage.Close()
	a.storage = nil
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
