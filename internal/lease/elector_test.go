package lease

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/tvsync/internal/models"
	"github.com/iudanet/tvsync/internal/syncstate"
)

// mockClock управляемые часы для тестов
type mockClock struct {
	now time.Time
	mu  sync.Mutex
}

func newMockClock(ms int64) *mockClock {
	return &mockClock{now: time.UnixMilli(ms)}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func ownedState(leaderID string, heartbeat int64) models.SyncState {
	state := models.DefaultSyncState()
	state.LeaderID = leaderID
	state.LeaderHeartbeat = heartbeat
	return state
}

func TestElector_Claim_InvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		req  models.ClaimRequest
	}{
		{name: "missing browserId", req: models.ClaimRequest{Timestamp: 1000}},
		{name: "missing timestamp", req: models.ClaimRequest{BrowserID: "alice"}},
		{name: "missing both", req: models.ClaimRequest{}},
		{name: "missing browserId with force", req: models.ClaimRequest{Timestamp: 1000, Force: true}},
		{name: "missing timestamp with force", req: models.ClaimRequest{BrowserID: "alice", Force: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := syncstate.NewWithState(ownedState("bob", 500))
			elector := New(store, WithClock(newMockClock(1000)))

			_, err := elector.Claim(tt.req)
			require.ErrorIs(t, err, ErrInvalidRequest)

			state := store.Get()
			assert.Equal(t, "bob", state.LeaderID)
			assert.Equal(t, int64(500), state.LeaderHeartbeat)
		})
	}
}

func TestElector_Claim_Force(t *testing.T) {
	tests := []struct {
		name    string
		initial models.SyncState
	}{
		{name: "unowned", initial: models.DefaultSyncState()},
		{name: "active leader", initial: ownedState("alice", 1000)},
		{name: "expired leader", initial: ownedState("alice", 1)},
		{name: "same leader", initial: ownedState("mallory", 1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := syncstate.NewWithState(tt.initial)
			elector := New(store, WithClock(newMockClock(1001)))

			result, err := elector.Claim(models.ClaimRequest{BrowserID: "mallory", Timestamp: 1002, Force: true})
			require.NoError(t, err)
			assert.True(t, result.Success)
			assert.True(t, result.Forced)
			assert.Equal(t, "mallory", result.LeaderID)

			state := store.Get()
			assert.Equal(t, "mallory", state.LeaderID)
			assert.Equal(t, int64(1002), state.LeaderHeartbeat)
		})
	}
}

func TestElector_Claim_Unowned(t *testing.T) {
	store := syncstate.New()
	elector := New(store, WithClock(newMockClock(1000)))

	result, err := elector.Claim(models.ClaimRequest{BrowserID: "alice", Timestamp: 1000})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.False(t, result.Forced)
	assert.Equal(t, "alice", result.LeaderID)

	state := store.Get()
	assert.Equal(t, "alice", state.LeaderID)
	assert.Equal(t, int64(1000), state.LeaderHeartbeat)
}

func TestElector_Claim_LeaseBoundary(t *testing.T) {
	tests := []struct {
		name        string
		elapsed     time.Duration
		wantSuccess bool
	}{
		{name: "fresh lease", elapsed: 0, wantSuccess: false},
		{name: "just inside lease", elapsed: 4999 * time.Millisecond, wantSuccess: false},
		{name: "exactly at timeout", elapsed: 5000 * time.Millisecond, wantSuccess: false},
		{name: "just expired", elapsed: 5001 * time.Millisecond, wantSuccess: true},
		{name: "long expired", elapsed: time.Hour, wantSuccess: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const t0 = int64(1_700_000_000_000)
			store := syncstate.NewWithState(ownedState("alice", t0))
			clock := newMockClock(t0)
			clock.Advance(tt.elapsed)
			elector := New(store, WithClock(clock))

			result, err := elector.Claim(models.ClaimRequest{BrowserID: "bob", Timestamp: 42})

			state := store.Get()
			if tt.wantSuccess {
				require.NoError(t, err)
				assert.True(t, result.Success)
				assert.Equal(t, "bob", state.LeaderID)
				assert.Equal(t, int64(42), state.LeaderHeartbeat)
				return
			}

			require.ErrorIs(t, err, ErrClaimRejected)
			assert.False(t, result.Success)
			assert.Equal(t, "alice", result.LeaderID)
			assert.Equal(t, ReasonLeaderActive, result.Reason)
			assert.Equal(t, "alice", state.LeaderID)
			assert.Equal(t, t0, state.LeaderHeartbeat)
		})
	}
}

func TestElector_Claim_SameLeaderInsideWindowIsRejected(t *testing.T) {
	store := syncstate.New()
	clock := newMockClock(1000)
	elector := New(store, WithClock(clock))

	_, err := elector.Claim(models.ClaimRequest{BrowserID: "alice", Timestamp: 1000})
	require.NoError(t, err)

	clock.Advance(time.Second)
	result, err := elector.Claim(models.ClaimRequest{BrowserID: "alice", Timestamp: 2000})
	require.ErrorIs(t, err, ErrClaimRejected)
	assert.Equal(t, "alice", result.LeaderID)
	assert.Equal(t, int64(1000), store.Get().LeaderHeartbeat, "heartbeat must not be refreshed")
}

func TestElector_Scenario_FailoverAfterTimeout(t *testing.T) {
	store := syncstate.New()
	clock := newMockClock(1000)
	elector := New(store, WithClock(clock))

	result, err := elector.Claim(models.ClaimRequest{BrowserID: "alice", Timestamp: 1000})
	require.NoError(t, err)
	assert.Equal(t, "alice", result.LeaderID)

	result, err = elector.Claim(models.ClaimRequest{BrowserID: "bob", Timestamp: 1001})
	require.ErrorIs(t, err, ErrClaimRejected)
	assert.Equal(t, "alice", result.LeaderID)
	assert.Equal(t, "alice", store.Get().LeaderID)

	clock.Advance(6000 * time.Millisecond)
	result, err = elector.Claim(models.ClaimRequest{BrowserID: "bob", Timestamp: 7001})
	require.NoError(t, err)
	assert.Equal(t, "bob", result.LeaderID)

	state := store.Get()
	assert.Equal(t, "bob", state.LeaderID)
	assert.Equal(t, int64(7001), state.LeaderHeartbeat)
}

func TestElector_Scenario_ForceTakeover(t *testing.T) {
	store := syncstate.New()
	elector := New(store, WithClock(newMockClock(1000)))

	_, err := elector.Claim(models.ClaimRequest{BrowserID: "alice", Timestamp: 1000})
	require.NoError(t, err)

	result, err := elector.Claim(models.ClaimRequest{BrowserID: "mallory", Timestamp: 1002, Force: true})
	require.NoError(t, err)
	assert.True(t, result.Forced)
	assert.Equal(t, "mallory", store.Get().LeaderID)
}

func TestElector_Claim_SkewedClientClock(t *testing.T) {
	// Клиент с отстающими часами все равно может захватить лидерство,
	// а истечение аренды считается по часам сервера.
	store := syncstate.New()
	clock := newMockClock(1_700_000_000_000)
	elector := New(store, WithClock(clock))

	_, err := elector.Claim(models.ClaimRequest{BrowserID: "alice", Timestamp: 10})
	require.NoError(t, err)

	// heartbeat = 10, поэтому по часам сервера аренда уже истекла
	result, err := elector.Claim(models.ClaimRequest{BrowserID: "bob", Timestamp: 20})
	require.NoError(t, err)
	assert.Equal(t, "bob", result.LeaderID)
}

func TestElector_Claim_CustomTimeout(t *testing.T) {
	store := syncstate.NewWithState(ownedState("alice", 1000))
	clock := newMockClock(1000)
	elector := New(store, WithClock(clock), WithTimeout(time.Second))

	assert.Equal(t, time.Second, elector.Timeout())

	clock.Advance(1500 * time.Millisecond)
	result, err := elector.Claim(models.ClaimRequest{BrowserID: "bob", Timestamp: 2500})
	require.NoError(t, err)
	assert.Equal(t, "bob", result.LeaderID)
}

func TestElector_Leader(t *testing.T) {
	store := syncstate.New()
	clock := newMockClock(1000)
	elector := New(store, WithClock(clock))

	id, _, expired := elector.Leader()
	assert.Empty(t, id)
	assert.True(t, expired)

	_, err := elector.Claim(models.ClaimRequest{BrowserID: "alice", Timestamp: 1000})
	require.NoError(t, err)

	id, heartbeat, expired := elector.Leader()
	assert.Equal(t, "alice", id)
	assert.Equal(t, int64(1000), heartbeat)
	assert.False(t, expired)

	clock.Advance(10 * time.Second)
	_, _, expired = elector.Leader()
	assert.True(t, expired)
	assert.Equal(t, "alice", store.Get().LeaderID, "expiry is lazy, leader stays recorded")
}

func TestElector_Claim_ConcurrentSingleWinner(t *testing.T) {
	store := syncstate.New()
	elector := New(store, WithClock(newMockClock(1000)))

	const claimers = 50
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
	)

	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('A' + i%26))
			if i >= 26 {
				id += "2"
			}
			result, err := elector.Claim(models.ClaimRequest{BrowserID: id, Timestamp: 1000})
			if err == nil {
				mu.Lock()
				winners = append(winners, result.LeaderID)
				mu.Unlock()
				return
			}
			assert.True(t, errors.Is(err, ErrClaimRejected))
		}(i)
	}
	wg.Wait()

	require.Len(t, winners, 1, "exactly one claimer should win an unowned lease")
	assert.Equal(t, winners[0], store.Get().LeaderID)
}

func TestElector_Claim_ExtremeHeartbeat(t *testing.T) {
	const now = int64(1_700_000_000_000)

	tests := []struct {
		name        string
		heartbeat   int64
		wantSuccess bool
	}{
		{name: "min int64", heartbeat: math.MinInt64, wantSuccess: true},
		{name: "near min int64", heartbeat: math.MinInt64 + 1, wantSuccess: true},
		{name: "negative", heartbeat: -1, wantSuccess: true},
		{name: "far future", heartbeat: math.MaxInt64, wantSuccess: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := syncstate.NewWithState(ownedState("alice", tt.heartbeat))
			elector := New(store, WithClock(newMockClock(now)))

			_, _, expired := elector.Leader()
			assert.Equal(t, tt.wantSuccess, expired)

			result, err := elector.Claim(models.ClaimRequest{BrowserID: "bob", Timestamp: now})
			assert.Equal(t, tt.wantSuccess, result.Success)
			if tt.wantSuccess {
				require.NoError(t, err)
				assert.Equal(t, "bob", store.Get().LeaderID)
			} else {
				require.ErrorIs(t, err, ErrClaimRejected)
				assert.Equal(t, "alice", store.Get().LeaderID)
			}
		})
	}
}

func TestElapsedMillis(t *testing.T) {
	tests := []struct {
		name string
		now  int64
		then int64
		want int64
	}{
		{name: "regular", now: 10_000, then: 4_000, want: 6_000},
		{name: "then in future", now: 1_000, then: 4_000, want: -3_000},
		{name: "overflow up", now: 1_000, then: math.MinInt64, want: math.MaxInt64},
		{name: "overflow down", now: -10, then: math.MaxInt64, want: math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, elapsedMillis(tt.now, tt.then))
		})
	}
}
