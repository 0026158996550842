package models

import "time"

// ClaimRequest представляет попытку браузера стать лидером
type ClaimRequest struct {
	BrowserID string // BrowserID непрозрачный идентификатор клиента
	Timestamp int64  // Timestamp часы клиента в ms, становятся новым heartbeat
	Force     bool   // Force принудительный захват (кнопка CLAIM)
}

// Исходы попытки захвата лидерства
const (
	OutcomeClaimed  = "claimed"
	OutcomeForced   = "forced"
	OutcomeRejected = "rejected"
)

// LeaderEvent запись журнала лидерства.
// Журнал диагностический: состояние из него не восстанавливается.
type LeaderEvent struct {
	At        time.Time `json:"at"`         // At серверное время события
	ID        string    `json:"id"`         // ID уникальный идентификатор записи (UUID)
	BrowserID string    `json:"browser_id"` // BrowserID кто пытался захватить лидерство
	LeaderID  string    `json:"leader_id"`  // LeaderID лидер после обработки запроса
	Outcome   string    `json:"outcome"`    // Outcome claimed, forced или rejected
	Timestamp int64     `json:"timestamp"`  // Timestamp timestamp из запроса клиента
}
