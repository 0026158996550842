package handlers

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/iudanet/tvsync/internal/lease"
	"github.com/iudanet/tvsync/internal/models"
	"github.com/iudanet/tvsync/internal/server/storage"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors in tests
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

// mockLeaders фиксированный лидер
type mockLeaders struct {
	leaderID  string
	heartbeat int64
}

func (m *mockLeaders) LeaderSnapshot() (string, int64) {
	return m.leaderID, m.heartbeat
}

// mockElector возвращает заранее заданный результат
type mockElector struct {
	err      error
	requests []models.ClaimRequest
	result   lease.Result
}

func (m *mockElector) Claim(req models.ClaimRequest) (lease.Result, error) {
	m.requests = append(m.requests, req)
	return m.result, m.err
}

// mockJournal in-memory журнал
type mockJournal struct {
	recordErr error
	recentErr error
	events    []*models.LeaderEvent
	mu        sync.Mutex
}

func (m *mockJournal) Record(ctx context.Context, event *models.LeaderEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.recordErr != nil {
		return m.recordErr
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockJournal) Recent(ctx context.Context, limit int) ([]*models.LeaderEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.recentErr != nil {
		return nil, m.recentErr
	}
	if limit <= 0 {
		return nil, storage.ErrInvalidLimit
	}

	result := make([]*models.LeaderEvent, 0, limit)
	for i := len(m.events) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.events[i])
	}
	return result, nil
}

var errMockStorage = errors.New("mock storage failure")
