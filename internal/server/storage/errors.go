package storage

import "errors"

// Common storage errors
var (
	// ErrJournalClosed indicates that the journal storage was closed
	ErrJournalClosed = errors.New("journal is closed")

	// ErrInvalidLimit indicates that a non-positive limit was requested
	ErrInvalidLimit = errors.New("limit must be positive")
)
