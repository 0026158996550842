package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tvsync/internal/lease"
	"github.com/iudanet/tvsync/internal/models"
	"github.com/iudanet/tvsync/internal/syncstate"
	"github.com/iudanet/tvsync/pkg/api"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func claimBody(browserID string, timestamp int64, force bool) string {
	return fmt.Sprintf(`{"browserId": %q, "timestamp": %d, "force": %t}`, browserID, timestamp, force)
}

func doClaim(t *testing.T, handler *LeaderHandler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/claim-leader", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.ClaimLeader(w, req)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	return w, raw
}

func TestLeaderHandler_ClaimLeader_InvalidRequest(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		expectedError string
	}{
		{name: "empty body", body: ``, expectedError: "Missing browserId or timestamp"},
		{name: "empty object", body: `{}`, expectedError: "Missing browserId or timestamp"},
		{name: "missing timestamp", body: `{"browserId": "alice"}`, expectedError: "Missing browserId or timestamp"},
		{name: "missing browserId forced", body: `{"timestamp": 5, "force": true}`, expectedError: "Missing browserId or timestamp"},
		{name: "broken json", body: `{"browserId":`, expectedError: "Invalid request body"},
		{name: "wrong types", body: `{"browserId": 7, "timestamp": 5}`, expectedError: "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := syncstate.New()
			journal := &mockJournal{}
			handler := NewLeaderHandler(setupTestLogger(), lease.New(store), journal)

			w, raw := doClaim(t, handler, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, false, raw["success"])
			assert.Equal(t, tt.expectedError, raw["error"])
			assert.Empty(t, store.Get().LeaderID)
			assert.Empty(t, journal.events, "invalid requests are not journaled")
		})
	}
}

func TestLeaderHandler_ClaimLeader_Flow(t *testing.T) {
	store := syncstate.New()
	clock := &fixedClock{now: time.UnixMilli(1000)}
	journal := &mockJournal{}
	handler := NewLeaderHandler(setupTestLogger(), lease.New(store, lease.WithClock(clock)), journal)

	// alice становится лидером
	w, raw := doClaim(t, handler, claimBody("alice", 1000, false))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, raw["success"])
	assert.Equal(t, "alice", raw["leaderId"])
	assert.NotContains(t, raw, "forced")

	// bob получает отказ
	w, raw = doClaim(t, handler, claimBody("bob", 1001, false))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, raw["success"])
	assert.Equal(t, "alice", raw["leaderId"])
	assert.Equal(t, "Leader active", raw["reason"])

	// аренда истекла
	clock.now = clock.now.Add(6 * time.Second)
	w, raw = doClaim(t, handler, claimBody("bob", 7001, false))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, raw["success"])
	assert.Equal(t, "bob", raw["leaderId"])

	// mallory забирает лидерство принудительно
	w, raw = doClaim(t, handler, claimBody("mallory", 7002, true))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, raw["success"])
	assert.Equal(t, true, raw["forced"])
	assert.Equal(t, "mallory", store.Get().LeaderID)

	require.Len(t, journal.events, 4)
	outcomes := make([]string, 0, len(journal.events))
	for _, event := range journal.events {
		outcomes = append(outcomes, event.Outcome)
	}
	assert.Equal(t, []string{
		models.OutcomeClaimed, models.OutcomeRejected, models.OutcomeClaimed, models.OutcomeForced,
	}, outcomes)
	assert.Equal(t, "alice", journal.events[1].LeaderID)
	assert.Equal(t, "bob", journal.events[1].BrowserID)
}

func TestLeaderHandler_ClaimLeader_JournalFailureIgnored(t *testing.T) {
	store := syncstate.New()
	journal := &mockJournal{recordErr: errMockStorage}
	handler := NewLeaderHandler(setupTestLogger(), lease.New(store), journal)

	w, raw := doClaim(t, handler, claimBody("alice", time.Now().UnixMilli(), false))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, raw["success"])
	assert.Equal(t, "alice", store.Get().LeaderID)
}

func TestLeaderHandler_ClaimLeader_NilJournal(t *testing.T) {
	store := syncstate.New()
	handler := NewLeaderHandler(setupTestLogger(), lease.New(store), nil)

	w, raw := doClaim(t, handler, claimBody("alice", 1, true))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, raw["forced"])
}

func TestLeaderHandler_ClaimLeader_UnexpectedError(t *testing.T) {
	elector := &mockElector{err: errMockStorage}
	handler := NewLeaderHandler(setupTestLogger(), elector, nil)

	w, raw := doClaim(t, handler, claimBody("alice", 1, false))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", raw["error"])
	require.Len(t, elector.requests, 1)
	assert.Equal(t, models.ClaimRequest{BrowserID: "alice", Timestamp: 1}, elector.requests[0])
}

func TestLeaderHandler_History(t *testing.T) {
	journal := &mockJournal{}
	for i := 0; i < 60; i++ {
		journal.events = append(journal.events, &models.LeaderEvent{
			ID:        fmt.Sprintf("evt-%d", i),
			BrowserID: "alice",
			LeaderID:  "alice",
			Outcome:   models.OutcomeClaimed,
			Timestamp: int64(i),
		})
	}
	handler := NewLeaderHandler(setupTestLogger(), &mockElector{}, journal)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedCount  int
	}{
		{name: "default limit", query: "", expectedStatus: http.StatusOK, expectedCount: DefaultHistoryLimit},
		{name: "explicit limit", query: "?limit=3", expectedStatus: http.StatusOK, expectedCount: 3},
		{name: "limit above total", query: "?limit=1000", expectedStatus: http.StatusOK, expectedCount: 60},
		{name: "invalid limit", query: "?limit=abc", expectedStatus: http.StatusBadRequest},
		{name: "zero limit", query: "?limit=0", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/leader-history"+tt.query, nil)
			w := httptest.NewRecorder()
			handler.History(w, req)

			require.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp api.HistoryResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Len(t, resp.Events, tt.expectedCount)
			assert.Equal(t, "evt-59", resp.Events[0].ID, "newest first")
		})
	}
}

func TestLeaderHandler_History_Errors(t *testing.T) {
	t.Run("journal disabled", func(t *testing.T) {
		handler := NewLeaderHandler(setupTestLogger(), &mockElector{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/leader-history", nil)
		w := httptest.NewRecorder()
		handler.History(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("journal failure", func(t *testing.T) {
		handler := NewLeaderHandler(setupTestLogger(), &mockElector{}, &mockJournal{recentErr: errMockStorage})

		req := httptest.NewRequest(http.MethodGet, "/leader-history", nil)
		w := httptest.NewRecorder()
		handler.History(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
