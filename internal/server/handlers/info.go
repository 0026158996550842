package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/tvsync/pkg/api"
)

// ServiceName имя сервиса в описании GET /
const ServiceName = "TradingView Sync Server v2"

// isoMillis формат Date.toISOString()
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Endpoints список маршрутов для описания сервиса
var Endpoints = []string{
	"GET /health - Health check",
	"GET /sync-state - Get current state",
	"POST /sync-state - Update state (leader heartbeat)",
	"POST /claim-leader - Claim leadership",
	"GET /leader-history - Recent leadership claims",
}

// InfoHandler отдает метаданные сервиса
type InfoHandler struct {
	logger  *slog.Logger
	leaders LeaderReader
	version string
}

// NewInfoHandler создает handler описания сервиса
func NewInfoHandler(logger *slog.Logger, leaders LeaderReader, version string) *InfoHandler {
	return &InfoHandler{
		logger:  logger,
		leaders: leaders,
		version: version,
	}
}

// Info обрабатывает GET /
// browserCount равен 1, если лидер записан: это не число подключенных клиентов
func (h *InfoHandler) Info(w http.ResponseWriter, r *http.Request) {
	leaderID, heartbeat := h.leaders.LeaderSnapshot()

	resp := api.InfoResponse{
		Name:          ServiceName,
		Version:       h.version,
		Endpoints:     Endpoints,
		CurrentLeader: api.NoLeader,
		LastHeartbeat: FormatHeartbeat(heartbeat),
		BrowserCount:  0,
	}
	if leaderID != "" {
		resp.CurrentLeader = leaderID
		resp.BrowserCount = 1
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// FormatHeartbeat форматирует heartbeat в ISO-8601 (UTC, миллисекунды) или "never"
func FormatHeartbeat(heartbeat int64) string {
	if heartbeat == 0 {
		return api.NeverHeartbeat
	}
	return time.UnixMilli(heartbeat).UTC().Format(isoMillis)
}
