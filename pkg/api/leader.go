package api

import "time"

// ClaimRequest представляет запрос POST /claim-leader
type ClaimRequest struct {
	BrowserID string `json:"browserId"`
	Timestamp int64  `json:"timestamp"`       // часы клиента в ms
	Force     bool   `json:"force,omitempty"` // принудительный захват
}

// ClaimResponse представляет ответ на попытку захвата лидерства.
// Отказ из-за активного лидера приходит со статусом 200 и Success=false.
type ClaimResponse struct {
	LeaderID string `json:"leaderId,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Success  bool   `json:"success"`
	Forced   bool   `json:"forced,omitempty"`
}

// LeaderEvent представляет запись журнала лидерства
type LeaderEvent struct {
	At        time.Time `json:"at"`
	ID        string    `json:"id"`
	BrowserID string    `json:"browserId"`
	LeaderID  string    `json:"leaderId"`
	Outcome   string    `json:"outcome"`
	Timestamp int64     `json:"timestamp"`
}

// HistoryResponse представляет ответ GET /leader-history
type HistoryResponse struct {
	Events []LeaderEvent `json:"events"` // новые записи первыми
}
