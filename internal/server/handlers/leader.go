package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iudanet/tvsync/internal/lease"
	"github.com/iudanet/tvsync/internal/models"
	"github.com/iudanet/tvsync/internal/server/storage"
	"github.com/iudanet/tvsync/pkg/api"
)

const (
	// DefaultHistoryLimit сколько событий отдавать без ?limit
	DefaultHistoryLimit = 50
	// MaxHistoryLimit верхняя граница ?limit
	MaxHistoryLimit = 500
)

// LeaderElector определяет интерфейс арбитра лидерства
type LeaderElector interface {
	Claim(req models.ClaimRequest) (lease.Result, error)
}

// LeaderHandler handles leadership claims and the leadership journal
type LeaderHandler struct {
	logger  *slog.Logger
	elector LeaderElector
	journal storage.LeaderJournal // nil, если журнал выключен
}

// NewLeaderHandler creates a new leader handler
// journal may be nil
func NewLeaderHandler(logger *slog.Logger, elector LeaderElector, journal storage.LeaderJournal) *LeaderHandler {
	return &LeaderHandler{
		logger:  logger,
		elector: elector,
		journal: journal,
	}
}

// ClaimLeader обрабатывает POST /claim-leader
// Отказ из-за активного лидера возвращается со статусом 200 и success=false
func (h *LeaderHandler) ClaimLeader(w http.ResponseWriter, r *http.Request) {
	var req api.ClaimRequest

	// Пустое тело эквивалентно {}: дальше сработает проверка обязательных полей
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("Failed to decode claim request", "error", err)
		writeClaimError(w, h.logger, msgInvalidBody)
		return
	}

	claim := models.ClaimRequest{
		BrowserID: req.BrowserID,
		Timestamp: req.Timestamp,
		Force:     req.Force,
	}

	result, err := h.elector.Claim(claim)
	switch {
	case errors.Is(err, lease.ErrInvalidRequest):
		writeClaimError(w, h.logger, msgMissingFields)
		return
	case errors.Is(err, lease.ErrClaimRejected):
		h.record(r.Context(), claim, models.OutcomeRejected, result.LeaderID)
		writeJSON(w, h.logger, http.StatusOK, api.ClaimResponse{
			Success:  false,
			LeaderID: result.LeaderID,
			Reason:   result.Reason,
		})
		return
	case err != nil:
		h.logger.Error("Failed to claim leadership", "error", err, "browser_id", claim.BrowserID)
		writeError(w, h.logger, http.StatusInternalServerError, msgInternalError)
		return
	}

	outcome := models.OutcomeClaimed
	if result.Forced {
		outcome = models.OutcomeForced
	}
	h.record(r.Context(), claim, outcome, result.LeaderID)

	writeJSON(w, h.logger, http.StatusOK, api.ClaimResponse{
		Success:  true,
		LeaderID: result.LeaderID,
		Forced:   result.Forced,
	})
}

// writeClaimError отвечает 400 в формате claim-leader: {"success": false, "error": ...}
func writeClaimError(w http.ResponseWriter, logger *slog.Logger, message string) {
	success := false
	writeJSON(w, logger, http.StatusBadRequest, api.ErrorResponse{
		Success: &success,
		Error:   message,
	})
}

// record пишет исход в журнал. Ошибка журнала не влияет на ответ.
func (h *LeaderHandler) record(ctx context.Context, claim models.ClaimRequest, outcome, leaderID string) {
	if h.journal == nil {
		return
	}

	event := &models.LeaderEvent{
		BrowserID: claim.BrowserID,
		LeaderID:  leaderID,
		Outcome:   outcome,
		Timestamp: claim.Timestamp,
	}
	if err := h.journal.Record(ctx, event); err != nil {
		h.logger.Warn("Failed to record leader event", "error", err, "browser_id", claim.BrowserID)
	}
}

// History обрабатывает GET /leader-history?limit=N
// Возвращает последние исходы захвата лидерства, новые первыми
func (h *LeaderHandler) History(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		writeError(w, h.logger, http.StatusServiceUnavailable, msgJournalOff)
		return
	}

	limit := DefaultHistoryLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			h.logger.Warn("Invalid limit parameter", "limit", limitStr)
			writeError(w, h.logger, http.StatusBadRequest, msgInvalidLimit)
			return
		}
		limit = min(parsed, MaxHistoryLimit)
	}

	events, err := h.journal.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to read leader journal", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, msgInternalError)
		return
	}

	// Конвертируем в API формат
	apiEvents := make([]api.LeaderEvent, 0, len(events))
	for _, event := range events {
		apiEvents = append(apiEvents, api.LeaderEvent{
			At:        event.At,
			ID:        event.ID,
			BrowserID: event.BrowserID,
			LeaderID:  event.LeaderID,
			Outcome:   event.Outcome,
			Timestamp: event.Timestamp,
		})
	}

	writeJSON(w, h.logger, http.StatusOK, api.HistoryResponse{Events: apiEvents})
}
