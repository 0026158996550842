package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Имена полей SyncState в JSON представлении
const (
	FieldLeaderID        = "leaderId"
	FieldLeaderHeartbeat = "leaderHeartbeat"
	FieldCurrentIndex    = "currentIndex"
	FieldRotateInterval  = "rotateInterval"
	FieldFetchInterval   = "fetchInterval"
	FieldColLInterval    = "colLInterval"
	FieldSelectedFilters = "selectedFilters"
	FieldFilteredData    = "filteredData"
	FieldAlertSettings   = "alertSettings"
)

// SyncState представляет общее состояние, которое читают и пишут все браузеры.
// LeaderID == "" означает, что лидера нет (в JSON кодируется как null).
// Extra хранит ключи, которые сервер не знает, в исходном виде.
type SyncState struct {
	AlertSettings   map[string]float64         // AlertSettings пороги и cooldown'ы алертов
	Extra           map[string]json.RawMessage // Extra неизвестные ключи из patch'ей
	LeaderID        string                     // LeaderID идентификатор браузера-лидера
	SelectedFilters []string                   // SelectedFilters выбранные фильтры
	FilteredData    []json.RawMessage          // FilteredData непрозрачные записи клиентов
	LeaderHeartbeat int64                      // LeaderHeartbeat ms since epoch последнего heartbeat
	CurrentIndex    int64
	RotateInterval  int64
	FetchInterval   int64
	ColLInterval    int64
}

// DefaultAlertSettings возвращает набор порогов по умолчанию (12 ключей)
func DefaultAlertSettings() map[string]float64 {
	return map[string]float64{
		"threshold_1c":      2,
		"threshold_2c":      2,
		"threshold_1_minus": 20,
		"threshold_2_minus": 20,
		"cooldown_1x":       15,
		"cooldown_1c":       15,
		"cooldown_1_plus":   15,
		"cooldown_1_minus":  15,
		"cooldown_2x":       15,
		"cooldown_2c":       15,
		"cooldown_2_plus":   15,
		"cooldown_2_minus":  15,
	}
}

// DefaultSyncState возвращает состояние, с которым стартует сервер
func DefaultSyncState() SyncState {
	return SyncState{
		LeaderID:        "",
		LeaderHeartbeat: 0,
		CurrentIndex:    0,
		RotateInterval:  7,
		FetchInterval:   120,
		ColLInterval:    10,
		SelectedFilters: []string{"Comfortable"},
		FilteredData:    []json.RawMessage{},
		AlertSettings:   DefaultAlertSettings(),
		Extra:           make(map[string]json.RawMessage),
	}
}

// HasLeader reports whether a leader is recorded.
func (s *SyncState) HasLeader() bool {
	return s.LeaderID != ""
}

// Clone создает глубокую копию состояния
func (s *SyncState) Clone() SyncState {
	clone := *s

	if s.SelectedFilters != nil {
		clone.SelectedFilters = make([]string, len(s.SelectedFilters))
		copy(clone.SelectedFilters, s.SelectedFilters)
	}

	if s.FilteredData != nil {
		clone.FilteredData = make([]json.RawMessage, len(s.FilteredData))
		for i, record := range s.FilteredData {
			clone.FilteredData[i] = cloneRaw(record)
		}
	}

	if s.AlertSettings != nil {
		clone.AlertSettings = make(map[string]float64, len(s.AlertSettings))
		for k, v := range s.AlertSettings {
			clone.AlertSettings[k] = v
		}
	}

	clone.Extra = make(map[string]json.RawMessage, len(s.Extra))
	for k, v := range s.Extra {
		clone.Extra[k] = cloneRaw(v)
	}

	return clone
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out
}

// syncStateWire фиксированная часть JSON представления
type syncStateWire struct {
	LeaderID        *string            `json:"leaderId"`
	LeaderHeartbeat int64              `json:"leaderHeartbeat"`
	CurrentIndex    int64              `json:"currentIndex"`
	RotateInterval  int64              `json:"rotateInterval"`
	FetchInterval   int64              `json:"fetchInterval"`
	ColLInterval    int64              `json:"colLInterval"`
	SelectedFilters []string           `json:"selectedFilters"`
	FilteredData    []json.RawMessage  `json:"filteredData"`
	AlertSettings   map[string]float64 `json:"alertSettings"`
}

// MarshalJSON кодирует известные поля в фиксированном порядке,
// затем дописывает неизвестные ключи в отсортированном порядке.
func (s SyncState) MarshalJSON() ([]byte, error) {
	wire := syncStateWire{
		LeaderHeartbeat: s.LeaderHeartbeat,
		CurrentIndex:    s.CurrentIndex,
		RotateInterval:  s.RotateInterval,
		FetchInterval:   s.FetchInterval,
		ColLInterval:    s.ColLInterval,
		SelectedFilters: s.SelectedFilters,
		FilteredData:    s.FilteredData,
		AlertSettings:   s.AlertSettings,
	}
	if s.LeaderID != "" {
		leaderID := s.LeaderID
		wire.LeaderID = &leaderID
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sync state: %w", err)
	}

	if len(s.Extra) == 0 {
		return data, nil
	}

	keys := make([]string, 0, len(s.Extra))
	for k := range s.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(data[:len(data)-1]) // без закрывающей '}'
	for _, k := range keys {
		encodedKey, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal key %q: %w", k, err)
		}
		value := s.Extra[k]
		if len(value) == 0 {
			value = json.RawMessage("null")
		}
		buf.WriteByte(',')
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON декодирует состояние тем же путем, что и patch:
// известные поля проверяются по типу, остальные сохраняются в Extra.
func (s *SyncState) UnmarshalJSON(data []byte) error {
	patch, err := ParsePatch(data)
	if err != nil {
		return err
	}

	*s = SyncState{}
	patch.Apply(s)
	return nil
}
