package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/tvsync/pkg/api"
)

// LeaderReader отдает текущего лидера без копирования всего состояния
type LeaderReader interface {
	LeaderSnapshot() (leaderID string, heartbeat int64)
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	startedAt time.Time
	logger    *slog.Logger
	leaders   LeaderReader
}

// NewHealthHandler создает новый handler для health check.
// startedAt момент старта процесса, от него считается uptime.
func NewHealthHandler(logger *slog.Logger, leaders LeaderReader, startedAt time.Time) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		leaders:   leaders,
		startedAt: startedAt,
	}
}

// Health обрабатывает GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	leaderID, _ := h.leaders.LeaderSnapshot()
	if leaderID == "" {
		leaderID = api.NoLeader
	}

	resp := api.HealthResponse{
		Status:        "ok",
		Timestamp:     now.UnixMilli(),
		Uptime:        now.Sub(h.startedAt).Seconds(),
		CurrentLeader: leaderID,
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}
