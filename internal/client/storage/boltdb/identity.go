package boltdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/tvsync/internal/client/storage"
	"github.com/iudanet/tvsync/internal/validation"
)

var (
	browserIDKey = []byte("browser_id")
	lastStateKey = []byte("last")
)

// GetBrowserID returns the saved browser id
func (s *Storage) GetBrowserID(ctx context.Context) (string, error) {
	var browserID string

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketIdentity)
		if bucket == nil {
			return fmt.Errorf("identity bucket not found")
		}

		data := bucket.Get(browserIDKey)
		if data == nil {
			return storage.ErrIdentityNotFound
		}
		// data валидна только внутри транзакции
		browserID = string(data)
		return nil
	})
	if err != nil {
		return "", err
	}

	return browserID, nil
}

// SaveBrowserID stores the browser id
func (s *Storage) SaveBrowserID(ctx context.Context, browserID string) error {
	if err := validation.ValidateBrowserID(browserID); err != nil {
		return err
	}

	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketIdentity)
		if bucket == nil {
			return fmt.Errorf("identity bucket not found")
		}

		if err := bucket.Put(browserIDKey, []byte(browserID)); err != nil {
			return fmt.Errorf("failed to save browser id: %w", err)
		}
		return nil
	})
}

// SaveLastState caches a state snapshot
func (s *Storage) SaveLastState(ctx context.Context, snapshot *storage.StateSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal state snapshot: %w", err)
	}

	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketState)
		if bucket == nil {
			return fmt.Errorf("state bucket not found")
		}

		if err := bucket.Put(lastStateKey, data); err != nil {
			return fmt.Errorf("failed to save state snapshot: %w", err)
		}
		return nil
	})
}

// GetLastState returns the cached snapshot
func (s *Storage) GetLastState(ctx context.Context) (*storage.StateSnapshot, error) {
	var snapshot *storage.StateSnapshot

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketState)
		if bucket == nil {
			return fmt.Errorf("state bucket not found")
		}

		data := bucket.Get(lastStateKey)
		if data == nil {
			return storage.ErrStateNotFound
		}

		snapshot = &storage.StateSnapshot{}
		if err := json.Unmarshal(data, snapshot); err != nil {
			return fmt.Errorf("failed to unmarshal state snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (s *Storage) view(fn func(tx *bbolt.Tx) error) error {
	return mapClosed(s.db.View(fn))
}

func (s *Storage) update(fn func(tx *bbolt.Tx) error) error {
	return mapClosed(s.db.Update(fn))
}

// mapClosed переводит ошибку закрытой БД в storage.ErrStorageClosed
func mapClosed(err error) error {
	if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
		return storage.ErrStorageClosed
	}
	return err
}

var _ storage.IdentityStorage = (*Storage)(nil)
