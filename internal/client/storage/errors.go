package storage

import "errors"

// Common client storage errors
var (
	// ErrIdentityNotFound indicates that no browser id has been saved yet
	ErrIdentityNotFound = errors.New("browser identity not found")

	// ErrStateNotFound indicates that no state snapshot has been cached yet
	ErrStateNotFound = errors.New("cached state not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
