package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/tvsync/internal/models"
	"github.com/iudanet/tvsync/internal/server/storage"
)

// Record appends a claim outcome to the journal
func (s *Storage) Record(ctx context.Context, event *models.LeaderEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}

	query := `
		INSERT INTO leader_events (id, browser_id, leader_id, outcome, timestamp, at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.BrowserID,
		event.LeaderID,
		event.Outcome,
		event.Timestamp,
		event.At.UnixMilli(),
	)
	if err != nil {
		if errors.Is(err, sql.ErrConnDone) {
			return storage.ErrJournalClosed
		}
		return fmt.Errorf("failed to record leader event: %w", err)
	}

	return nil
}

// Recent returns up to limit latest events, newest first
func (s *Storage) Recent(ctx context.Context, limit int) ([]*models.LeaderEvent, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidLimit
	}

	query := `
		SELECT id, browser_id, leader_id, outcome, timestamp, at
		FROM leader_events
		ORDER BY seq DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leader events: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	events := make([]*models.LeaderEvent, 0, limit)

	for rows.Next() {
		event := &models.LeaderEvent{}
		var at int64
		if err := rows.Scan(
			&event.ID,
			&event.BrowserID,
			&event.LeaderID,
			&event.Outcome,
			&event.Timestamp,
			&at,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leader event: %w", err)
		}
		event.At = time.UnixMilli(at)
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leader events: %w", err)
	}

	return events, nil
}
