package storage

import (
	"context"
	"time"

	"github.com/iudanet/tvsync/internal/models"
)

// IdentityStorage defines local persistence of this client's browser identity
// and the last state snapshot fetched from the server
type IdentityStorage interface {
	// GetBrowserID returns the saved browser id
	// Returns ErrIdentityNotFound if none was saved
	GetBrowserID(ctx context.Context) (string, error)

	// SaveBrowserID stores the browser id, replacing the previous one
	SaveBrowserID(ctx context.Context, browserID string) error

	// SaveLastState caches a state snapshot together with fetch time
	SaveLastState(ctx context.Context, snapshot *StateSnapshot) error

	// GetLastState returns the cached snapshot
	// Returns ErrStateNotFound if nothing was cached
	GetLastState(ctx context.Context) (*StateSnapshot, error)
}

// StateSnapshot состояние сервера на момент FetchedAt
type StateSnapshot struct {
	FetchedAt time.Time        `json:"fetched_at"`
	State     models.SyncState `json:"state"`
}
