package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/tvsync/pkg/api"
)

// Тексты ошибок, которые видят клиенты
const (
	msgNotFound       = "Not found"
	msgInternalError  = "Internal server error"
	msgInvalidBody    = "Invalid request body"
	msgMissingFields  = "Missing browserId or timestamp"
	msgBodyTooLarge   = "Request body too large"
	msgJournalOff     = "Leader journal is disabled"
	msgInvalidLimit   = "Invalid limit parameter"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

// writeJSON кодирует v в ответ с заданным статусом
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set(headerContentType, contentTypeJSON)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// writeError отвечает {"error": message}
func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	writeJSON(w, logger, status, api.ErrorResponse{Error: message})
}

// NotFound отвечает 404 на все маршруты, которые не совпали
func NotFound(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, logger, http.StatusNotFound, msgNotFound)
	}
}
