package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/iudanet/tvsync/internal/client/storage"
	"github.com/iudanet/tvsync/internal/models"
	"github.com/iudanet/tvsync/pkg/api"
)

// DefaultInterval период между шагами агента
const DefaultInterval = time.Second

// Действия шага
const (
	ActionHeartbeat = "heartbeat"
	ActionClaimed   = "claimed"
	ActionRejected  = "rejected"
)

//go:generate moq -out syncapi_mock.go . SyncAPI

// SyncAPI часть HTTP клиента, нужная агенту
type SyncAPI interface {
	GetState(ctx context.Context) (*models.SyncState, error)
	UpdateState(ctx context.Context, patch map[string]any) error
	ClaimLeader(ctx context.Context, req api.ClaimRequest) (*api.ClaimResponse, error)
}

// Clock источник времени (подменяется в тестах)
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Status результат одного шага
type Status struct {
	LeaderID string
	Action   string
	IsLeader bool
}

// Agent держит лидерство за одной вкладкой: пока она лидер, шлет heartbeat
// через обновление состояния, иначе пытается захватить лидерство без force.
type Agent struct {
	client     SyncAPI
	clock      Clock
	cache      storage.IdentityStorage
	logger     *slog.Logger
	onStatus   func(Status)
	backoff    retry.Backoff
	newBackoff func() retry.Backoff
	browserID  string
	interval   time.Duration
	wasLeader  bool
}

// Option настраивает Agent
type Option func(*Agent)

// WithClock задает источник времени
func WithClock(clock Clock) Option {
	return func(a *Agent) {
		a.clock = clock
	}
}

// WithLogger задает логгер
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// WithInterval задает период между шагами
func WithInterval(interval time.Duration) Option {
	return func(a *Agent) {
		if interval > 0 {
			a.interval = interval
		}
	}
}

// WithBackoff задает параметры задержки после ошибок
func WithBackoff(base, max time.Duration) Option {
	return func(a *Agent) {
		a.newBackoff = func() retry.Backoff {
			return NewBackoff(base, max)
		}
	}
}

// WithStateCache сохраняет каждый полученный снимок состояния локально
func WithStateCache(cache storage.IdentityStorage) Option {
	return func(a *Agent) {
		a.cache = cache
	}
}

// WithStatusHook вызывается после каждого успешного шага
func WithStatusHook(fn func(Status)) Option {
	return func(a *Agent) {
		a.onStatus = fn
	}
}

// New создает агента для browserID
func New(client SyncAPI, browserID string, opts ...Option) (*Agent, error) {
	if browserID == "" {
		return nil, errors.New("browser id must not be empty")
	}

	a := &Agent{
		client:    client,
		browserID: browserID,
		clock:     realClock{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		interval:  DefaultInterval,
		newBackoff: func() retry.Backoff {
			return NewBackoff(DefaultBackoffBase, DefaultBackoffMax)
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.backoff = a.newBackoff()
	return a, nil
}

// Step выполняет один цикл: читает состояние, затем heartbeat или claim.
// Heartbeat обновляет только leaderHeartbeat: если между чтением и записью
// лидерство перехватили через force, leaderId остается за новым лидером.
func (a *Agent) Step(ctx context.Context) (Status, error) {
	state, err := a.client.GetState(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("failed to fetch state: %w", err)
	}

	now := a.clock.Now()
	a.cacheState(ctx, state, now)

	var status Status
	if state.LeaderID == a.browserID {
		patch := map[string]any{
			models.FieldLeaderHeartbeat: now.UnixMilli(),
		}
		if err := a.client.UpdateState(ctx, patch); err != nil {
			return Status{}, fmt.Errorf("failed to send heartbeat: %w", err)
		}
		status = Status{LeaderID: a.browserID, IsLeader: true, Action: ActionHeartbeat}
	} else {
		resp, err := a.client.ClaimLeader(ctx, api.ClaimRequest{
			BrowserID: a.browserID,
			Timestamp: now.UnixMilli(),
		})
		if err != nil {
			return Status{}, fmt.Errorf("failed to claim leadership: %w", err)
		}
		if resp.Success {
			status = Status{LeaderID: resp.LeaderID, IsLeader: true, Action: ActionClaimed}
		} else {
			status = Status{LeaderID: resp.LeaderID, Action: ActionRejected}
		}
	}

	a.logTransition(status)
	return status, nil
}

// Run вызывает Step каждые interval до отмены ctx.
// После ошибки ждет по экспоненциальному backoff.
func (a *Agent) Run(ctx context.Context) error {
	a.logger.Info("Agent started", "browser_id", a.browserID, "interval", a.interval)

	failures := 0
	for ctx.Err() == nil {
		status, err := a.Step(ctx)

		wait := a.interval
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			wait, _ = a.backoff.Next()
			failures++
			a.logger.Warn("Agent step failed", "error", err, "retry_in", wait, "attempt", failures)
		} else {
			if failures > 0 {
				a.backoff = a.newBackoff()
				failures = 0
			}
			if a.onStatus != nil {
				a.onStatus(status)
			}
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}

	a.logger.Info("Agent stopped", "browser_id", a.browserID)
	return nil
}

func (a *Agent) cacheState(ctx context.Context, state *models.SyncState, now time.Time) {
	if a.cache == nil {
		return
	}
	snapshot := &storage.StateSnapshot{FetchedAt: now, State: state.Clone()}
	if err := a.cache.SaveLastState(ctx, snapshot); err != nil {
		a.logger.Warn("Failed to cache state", "error", err)
	}
}

func (a *Agent) logTransition(status Status) {
	switch {
	case status.IsLeader && !a.wasLeader:
		a.logger.Info("Became leader", "browser_id", a.browserID)
	case !status.IsLeader && a.wasLeader:
		a.logger.Warn("Lost leadership", "browser_id", a.browserID, "leader_id", status.LeaderID)
	}
	a.wasLeader = status.IsLeader
}
