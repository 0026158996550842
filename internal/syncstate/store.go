// Package syncstate holds the single shared state record of the sync server.
package syncstate

import (
	"sync"

	"github.com/iudanet/tvsync/internal/models"
)

// Store владеет единственным экземпляром SyncState.
// Все операции сериализуются одним мьютексом: чтение, решение и запись
// внутри Update выполняются без промежуточных точек переключения.
type Store struct {
	state models.SyncState
	mu    sync.Mutex
}

// New создает store с состоянием по умолчанию
func New() *Store {
	return &Store{
		state: models.DefaultSyncState(),
	}
}

// NewWithState создает store с заданным начальным состоянием.
// Используется в тестах.
func NewWithState(state models.SyncState) *Store {
	return &Store{
		state: state.Clone(),
	}
}

// Get возвращает снимок текущего состояния (глубокую копию)
func (s *Store) Get() models.SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Clone()
}

// MergeUpdate перезаписывает каждое поле, присутствующее в patch.
// Контроля доступа нет: patch может переписать leaderId и leaderHeartbeat в обход протокола аренды.
func (s *Store) MergeUpdate(patch *models.Patch) {
	if patch == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	patch.Apply(&s.state)
}

// Update выполняет fn над состоянием под блокировкой.
// fn получает рабочую копию; если fn возвращает ошибку, копия отбрасывается
// и состояние остается без изменений.
func (s *Store) Update(fn func(state *models.SyncState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.Clone()
	if err := fn(&working); err != nil {
		return err
	}

	s.state = working
	return nil
}

// LeaderSnapshot returns the recorded leader and its last heartbeat without copying the whole record.
func (s *Store) LeaderSnapshot() (leaderID string, heartbeat int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.LeaderID, s.state.LeaderHeartbeat
}
