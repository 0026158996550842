package storage

import (
	"context"

	"github.com/iudanet/tvsync/internal/models"
)

// LeaderJournal defines interface for the leadership event journal
type LeaderJournal interface {
	// Record appends a claim outcome to the journal
	// Assigns ID and At when they are empty
	Record(ctx context.Context, event *models.LeaderEvent) error

	// Recent returns up to limit latest events, newest first
	// Returns ErrInvalidLimit if limit is not positive
	Recent(ctx context.Context, limit int) ([]*models.LeaderEvent, error)
}
