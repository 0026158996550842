package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/tvsync/internal/client/storage"
)

// RunID печатает id этой вкладки. Непустой newID заменяет сохраненный id.
func (c *Cli) RunID(ctx context.Context, newID string) error {
	if newID != "" {
		if err := c.identity.SaveBrowserID(ctx, newID); err != nil {
			return fmt.Errorf("failed to save browser id: %w", err)
		}
	}

	id, err := c.browserID(ctx)
	if err != nil {
		return err
	}
	c.io.Println(id)
	return nil
}

// RunHealth печатает ответ GET /health
func (c *Cli) RunHealth(ctx context.Context) error {
	resp, err := c.apiClient.Health(ctx)
	if err != nil {
		return err
	}
	return c.printJSON(resp)
}

// RunInfo печатает описание сервиса
func (c *Cli) RunInfo(ctx context.Context) error {
	resp, err := c.apiClient.Info(ctx)
	if err != nil {
		return err
	}
	return c.printJSON(resp)
}

// RunState печатает общее состояние и кеширует его локально.
// С cached=true печатает последний сохраненный снимок без обращения к серверу.
func (c *Cli) RunState(ctx context.Context, cached bool) error {
	if cached {
		snapshot, err := c.identity.GetLastState(ctx)
		if err != nil {
			if errors.Is(err, storage.ErrStateNotFound) {
				return fmt.Errorf("no cached state. Run 'tvsync state' while the server is reachable")
			}
			return fmt.Errorf("failed to read cached state: %w", err)
		}
		c.io.Printf("# cached at %s\n", snapshot.FetchedAt.Format(time.RFC3339))
		return c.printJSON(snapshot.State)
	}

	state, err := c.apiClient.GetState(ctx)
	if err != nil {
		return err
	}

	snapshot := &storage.StateSnapshot{FetchedAt: time.Now(), State: *state}
	if err := c.identity.SaveLastState(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to cache state: %w", err)
	}

	return c.printJSON(state)
}

// RunHistory печатает журнал лидерства
func (c *Cli) RunHistory(ctx context.Context, limit int) error {
	resp, err := c.apiClient.LeaderHistory(ctx, limit)
	if err != nil {
		return err
	}

	if !c.io.IsTerminal() {
		return c.printJSON(resp)
	}

	if len(resp.Events) == 0 {
		c.io.Println("No leadership events.")
		return nil
	}

	for _, event := range resp.Events {
		c.io.Printf("%s  %-8s  browser=%s  leader=%s\n",
			event.At.Local().Format(time.DateTime), event.Outcome, event.BrowserID, event.LeaderID)
	}
	return nil
}
