package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/tvsync/internal/client/agent"
)

func newIDCmd(a *app) *cobra.Command {
	var newID string
	idCmd := &cobra.Command{
		Use:   "id",
		Short: "Print this client's browser id (generated on first use)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.RunID(cmd.Context(), newID)
		},
	}
	idCmd.Flags().StringVar(&newID, "set", "", "Replace the saved browser id")
	return idCmd
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.RunHealth(cmd.Context())
		},
	}
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show service info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.RunInfo(cmd.Context())
		},
	}
}

func newStateCmd(a *app) *cobra.Command {
	var cached bool
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Print shared state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.RunState(cmd.Context(), cached)
		},
	}
	stateCmd.Flags().BoolVar(&cached, "cached", false, "Print the last locally cached state without contacting the server")
	return stateCmd
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "set key=value [key=value...]",
		Short:   "Replace top-level state fields",
		Example: `  tvsync set currentIndex=3 selectedFilters='["Hot"]' leaderId=null`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.RunSet(cmd.Context(), args)
		},
	}
}

func newClaimCmd(a *app) *cobra.Command {
	var force bool
	claimCmd := &cobra.Command{
		Use:   "claim",
		Short: "Try to become leader",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.RunClaim(cmd.Context(), force)
		},
	}
	claimCmd.Flags().BoolVar(&force, "force", false, "Take leadership even if the current leader is active")
	return claimCmd
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show leadership journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("limit must not be negative")
			}
			return a.cli.RunHistory(cmd.Context(), limit)
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", 0, "Number of events (0 = server default)")
	return historyCmd
}

func newRunCmd(a *app) *cobra.Command {
	var interval time.Duration
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Hold leadership: heartbeat while leader, claim otherwise",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.RunAgent(cmd.Context(), interval, a.logger)
		},
	}
	runCmd.Flags().DurationVar(&interval, "interval", agent.DefaultInterval, "Step interval")
	return runCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "TradingView Sync Client\n")
			_, _ = fmt.Fprintf(out, "Version:    %s\n", Version)
			_, _ = fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
			_, _ = fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
		},
	}
}
