// Package lease implements the heartbeat lease that decides which browser is the leader.
package lease

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/iudanet/tvsync/internal/models"
)

// DefaultTimeout время, после которого аренда лидера считается истекшей
const DefaultTimeout = 5000 * time.Millisecond

// ReasonLeaderActive причина отказа, когда активный лидер еще держит аренду
const ReasonLeaderActive = "Leader active"

var (
	// ErrInvalidRequest indicates that browserId or timestamp is missing
	ErrInvalidRequest = errors.New("missing browserId or timestamp")

	// ErrClaimRejected indicates that another leader still holds an unexpired lease
	ErrClaimRejected = errors.New("claim rejected")
)

// StateHolder предоставляет атомарный read-decide-write над общим состоянием
type StateHolder interface {
	Update(fn func(state *models.SyncState) error) error
	LeaderSnapshot() (leaderID string, heartbeat int64)
}

// Clock источник текущего времени. Подменяется в тестах.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Result описывает исход Claim
type Result struct {
	LeaderID string // LeaderID лидер после обработки запроса
	Reason   string // Reason причина отказа
	Success  bool
	Forced   bool
}

// Elector арбитр роли лидера.
// Истечение аренды проверяется лениво, только при следующей попытке захвата:
// фоновых таймеров нет.
type Elector struct {
	store   StateHolder
	clock   Clock
	logger  *slog.Logger
	timeout time.Duration
}

// Option настраивает Elector
type Option func(*Elector)

// WithClock задает источник времени
func WithClock(clock Clock) Option {
	return func(e *Elector) {
		e.clock = clock
	}
}

// WithTimeout задает длительность аренды
func WithTimeout(timeout time.Duration) Option {
	return func(e *Elector) {
		e.timeout = timeout
	}
}

// WithLogger задает логгер
func WithLogger(logger *slog.Logger) Option {
	return func(e *Elector) {
		e.logger = logger
	}
}

// New создает Elector поверх общего состояния
func New(store StateHolder, opts ...Option) *Elector {
	e := &Elector{
		store:   store,
		clock:   realClock{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Timeout возвращает длительность аренды
func (e *Elector) Timeout() time.Duration {
	return e.timeout
}

// Claim пытается сделать req.BrowserID лидером.
//
// Force захватывает лидерство безусловно. Обычный захват удается, если лидера нет
// или с последнего heartbeat по часам сервера прошло больше timeout.
// Новым heartbeat всегда становится timestamp клиента.
//
// Текущий лидер, повторно вызывающий Claim внутри своего окна, получает отказ
// так же, как и соперник: продлевать аренду нужно через обновление состояния.
func (e *Elector) Claim(req models.ClaimRequest) (Result, error) {
	if req.BrowserID == "" || req.Timestamp == 0 {
		return Result{}, ErrInvalidRequest
	}

	var result Result
	err := e.store.Update(func(state *models.SyncState) error {
		if req.Force {
			state.LeaderID = req.BrowserID
			state.LeaderHeartbeat = req.Timestamp
			result = Result{Success: true, LeaderID: req.BrowserID, Forced: true}
			return nil
		}

		if !state.HasLeader() || e.expired(state.LeaderHeartbeat) {
			state.LeaderID = req.BrowserID
			state.LeaderHeartbeat = req.Timestamp
			result = Result{Success: true, LeaderID: req.BrowserID}
			return nil
		}

		result = Result{Success: false, LeaderID: state.LeaderID, Reason: ReasonLeaderActive}
		return ErrClaimRejected
	})

	switch {
	case errors.Is(err, ErrClaimRejected):
		e.logger.Info("Claim rejected", "browser_id", req.BrowserID, "leader_id", result.LeaderID)
		return result, fmt.Errorf("leader %s is active: %w", result.LeaderID, err)
	case err != nil:
		return Result{}, fmt.Errorf("failed to claim leadership: %w", err)
	}

	if result.Forced {
		e.logger.Warn("Force claim", "browser_id", req.BrowserID)
	} else {
		e.logger.Info("Leadership claimed", "browser_id", req.BrowserID)
	}

	return result, nil
}

// Leader возвращает текущего лидера, его heartbeat и признак истечения аренды
// по часам сервера. Состояние не меняется.
func (e *Elector) Leader() (leaderID string, heartbeat int64, expired bool) {
	leaderID, heartbeat = e.store.LeaderSnapshot()
	if leaderID == "" {
		return "", heartbeat, true
	}
	return leaderID, heartbeat, e.expired(heartbeat)
}

func (e *Elector) expired(heartbeat int64) bool {
	return elapsedMillis(e.clock.Now().UnixMilli(), heartbeat) > e.timeout.Milliseconds()
}

// elapsedMillis возвращает now - then с насыщением на границах int64
func elapsedMillis(now, then int64) int64 {
	d := now - then
	switch {
	case then < 0 && d < now:
		return math.MaxInt64
	case then > 0 && d > now:
		return math.MinInt64
	}
	return d
}
