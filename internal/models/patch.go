package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidPatch indicates that a state patch is not a JSON object
// or one of the known fields has the wrong type.
var ErrInvalidPatch = errors.New("invalid state patch")

// Patch представляет частичное обновление SyncState.
// Nil-указатель означает, что ключа в patch'е не было.
// JSON null для известного поля сбрасывает его в нулевое значение.
type Patch struct {
	LeaderID        *string
	LeaderHeartbeat *int64
	CurrentIndex    *int64
	RotateInterval  *int64
	FetchInterval   *int64
	ColLInterval    *int64
	SelectedFilters *[]string
	FilteredData    *[]json.RawMessage
	AlertSettings   *map[string]float64
	Extra           map[string]json.RawMessage
	keys            []string
}

// ParsePatch декодирует тело запроса в Patch.
// Пустое тело или null дают пустой patch.
// Любая ошибка типа отклоняет весь patch целиком.
func ParsePatch(data []byte) (*Patch, error) {
	patch := &Patch{Extra: make(map[string]json.RawMessage)}

	if len(bytes.TrimSpace(data)) == 0 {
		return patch, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", ErrInvalidPatch)
	}

	for key, value := range raw {
		var err error
		switch key {
		case FieldLeaderID:
			patch.LeaderID, err = decodeField[string](key, value)
		case FieldLeaderHeartbeat:
			patch.LeaderHeartbeat, err = decodeField[int64](key, value)
		case FieldCurrentIndex:
			patch.CurrentIndex, err = decodeField[int64](key, value)
		case FieldRotateInterval:
			patch.RotateInterval, err = decodeField[int64](key, value)
		case FieldFetchInterval:
			patch.FetchInterval, err = decodeField[int64](key, value)
		case FieldColLInterval:
			patch.ColLInterval, err = decodeField[int64](key, value)
		case FieldSelectedFilters:
			patch.SelectedFilters, err = decodeField[[]string](key, value)
		case FieldFilteredData:
			patch.FilteredData, err = decodeField[[]json.RawMessage](key, value)
		case FieldAlertSettings:
			patch.AlertSettings, err = decodeField[map[string]float64](key, value)
		default:
			patch.Extra[key] = value
		}
		if err != nil {
			return nil, err
		}
		patch.keys = append(patch.keys, key)
	}

	sort.Strings(patch.keys)
	return patch, nil
}

func decodeField[T any](key string, raw json.RawMessage) (*T, error) {
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("%w: field %q: %v", ErrInvalidPatch, key, err)
	}
	return &value, nil
}

// Keys возвращает отсортированный список ключей patch'а
func (p *Patch) Keys() []string {
	return p.keys
}

// IsEmpty reports whether the patch carries no keys.
func (p *Patch) IsEmpty() bool {
	return len(p.keys) == 0
}

// Apply перезаписывает в state каждое поле, присутствующее в patch.
// Слияние поверхностное: alertSettings заменяется целиком.
func (p *Patch) Apply(s *SyncState) {
	if p.LeaderID != nil {
		s.LeaderID = *p.LeaderID
	}
	if p.LeaderHeartbeat != nil {
		s.LeaderHeartbeat = *p.LeaderHeartbeat
	}
	if p.CurrentIndex != nil {
		s.CurrentIndex = *p.CurrentIndex
	}
	if p.RotateInterval != nil {
		s.RotateInterval = *p.RotateInterval
	}
	if p.FetchInterval != nil {
		s.FetchInterval = *p.FetchInterval
	}
	if p.ColLInterval != nil {
		s.ColLInterval = *p.ColLInterval
	}
	if p.SelectedFilters != nil {
		s.SelectedFilters = nil
		if *p.SelectedFilters != nil {
			s.SelectedFilters = make([]string, len(*p.SelectedFilters))
			copy(s.SelectedFilters, *p.SelectedFilters)
		}
	}
	if p.FilteredData != nil {
		s.FilteredData = nil
		if *p.FilteredData != nil {
			s.FilteredData = make([]json.RawMessage, len(*p.FilteredData))
			for i, record := range *p.FilteredData {
				s.FilteredData[i] = cloneRaw(record)
			}
		}
	}
	if p.AlertSettings != nil {
		s.AlertSettings = nil
		if *p.AlertSettings != nil {
			s.AlertSettings = make(map[string]float64, len(*p.AlertSettings))
			for k, v := range *p.AlertSettings {
				s.AlertSettings[k] = v
			}
		}
	}

	if len(p.Extra) > 0 && s.Extra == nil {
		s.Extra = make(map[string]json.RawMessage, len(p.Extra))
	}
	for k, v := range p.Extra {
		s.Extra[k] = cloneRaw(v)
	}
}
