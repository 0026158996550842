package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/iudanet/tvsync/internal/client/agent"
	"github.com/iudanet/tvsync/internal/client/iocli"
	"github.com/iudanet/tvsync/internal/client/storage"
	"github.com/iudanet/tvsync/pkg/api"
)

// ServerAPI методы сервера, которые использует CLI
type ServerAPI interface {
	agent.SyncAPI
	Health(ctx context.Context) (*api.HealthResponse, error)
	Info(ctx context.Context) (*api.InfoResponse, error)
	LeaderHistory(ctx context.Context, limit int) (*api.HistoryResponse, error)
}

// Cli выполняет команды клиента
type Cli struct {
	apiClient ServerAPI
	identity  storage.IdentityStorage
	io        iocli.IO
}

// New создает Cli
func New(apiClient ServerAPI, identity storage.IdentityStorage, io iocli.IO) *Cli {
	return &Cli{
		apiClient: apiClient,
		identity:  identity,
		io:        io,
	}
}

// browserID возвращает сохраненный id вкладки, при первом запуске генерирует новый
func (c *Cli) browserID(ctx context.Context) (string, error) {
	id, err := c.identity.GetBrowserID(ctx)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, storage.ErrIdentityNotFound) {
		return "", fmt.Errorf("failed to read browser id: %w", err)
	}

	id = "browser-" + uuid.NewString()
	if err := c.identity.SaveBrowserID(ctx, id); err != nil {
		return "", fmt.Errorf("failed to save browser id: %w", err)
	}
	return id, nil
}

// printJSON печатает v с отступами в терминал и одной строкой в pipe
func (c *Cli) printJSON(v any) error {
	var (
		data []byte
		err  error
	)
	if c.io.IsTerminal() {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	_, err = c.io.Write(append(data, '\n'))
	return err
}
