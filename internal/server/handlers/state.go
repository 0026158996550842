package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/iudanet/tvsync/internal/models"
	"github.com/iudanet/tvsync/pkg/api"
)

// MaxStateBodyBytes максимальный размер тела POST /sync-state
const MaxStateBodyBytes = 5 << 20

// StateStore определяет интерфейс общего состояния
type StateStore interface {
	Get() models.SyncState
	MergeUpdate(patch *models.Patch)
}

// StateHandler handles shared state reads and writes
type StateHandler struct {
	logger *slog.Logger
	store  StateStore
}

// NewStateHandler creates a new state handler
func NewStateHandler(logger *slog.Logger, store StateStore) *StateHandler {
	return &StateHandler{
		logger: logger,
		store:  store,
	}
}

// GetState обрабатывает GET /sync-state
// Возвращает полный снимок состояния
func (h *StateHandler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.store.Get())
}

// UpdateState обрабатывает POST /sync-state
// Каждый ключ тела перезаписывает соответствующее поле состояния (без глубокого слияния).
// Так же лидер продлевает свой heartbeat.
func (h *StateHandler) UpdateState(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxStateBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.logger.Warn("State patch too large", "limit", maxErr.Limit)
			writeError(w, h.logger, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		h.logger.Warn("Failed to read state patch", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, msgInvalidBody)
		return
	}

	patch, err := models.ParsePatch(body)
	if err != nil {
		h.logger.Warn("Invalid state patch", "error", err)
		writeJSON(w, h.logger, http.StatusBadRequest, api.ErrorResponse{
			Error:   msgInvalidBody,
			Message: err.Error(),
		})
		return
	}

	h.store.MergeUpdate(patch)

	h.logger.Debug("State updated", "keys", patch.Keys())

	writeJSON(w, h.logger, http.StatusOK, api.SuccessResponse{Success: true})
}
