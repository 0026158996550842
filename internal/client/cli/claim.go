package cli

import (
	"context"
	"time"

	"github.com/iudanet/tvsync/pkg/api"
)

// RunClaim пытается сделать эту вкладку лидером
func (c *Cli) RunClaim(ctx context.Context, force bool) error {
	id, err := c.browserID(ctx)
	if err != nil {
		return err
	}

	resp, err := c.apiClient.ClaimLeader(ctx, api.ClaimRequest{
		BrowserID: id,
		Timestamp: time.Now().UnixMilli(),
		Force:     force,
	})
	if err != nil {
		return err
	}

	if !c.io.IsTerminal() {
		return c.printJSON(resp)
	}

	switch {
	case resp.Success && resp.Forced:
		c.io.Printf("✓ Leadership taken by force (%s)\n", resp.LeaderID)
	case resp.Success:
		c.io.Printf("✓ Leadership claimed (%s)\n", resp.LeaderID)
	default:
		c.io.Printf("✗ Claim rejected: %s (leader %s)\n", resp.Reason, resp.LeaderID)
	}
	return nil
}
