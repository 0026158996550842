package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/iudanet/tvsync/internal/client/agent"
)

// RunAgent держит лидерство до отмены ctx
func (c *Cli) RunAgent(ctx context.Context, interval time.Duration, logger *slog.Logger) error {
	id, err := c.browserID(ctx)
	if err != nil {
		return err
	}

	a, err := agent.New(c.apiClient, id,
		agent.WithInterval(interval),
		agent.WithLogger(logger),
		agent.WithStateCache(c.identity),
	)
	if err != nil {
		return err
	}

	c.io.Printf("Running as %s (Ctrl+C to stop)\n", id)
	return a.Run(ctx)
}
