package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by repositories and services. Handlers map these
// to HTTP status codes; the core only cares about identity via errors.Is.
var (
	// ErrRunInProgress rejects a new ingestion trigger while a run is active.
	// The caller should retry later.
	ErrRunInProgress = errors.New("an ingestion run is already in progress")

	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("record not found")
)

// FetchError wraps a failure of the external search/fetch collaborator.
// It fails the current run; retry belongs to the next scheduled trigger.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch from %s failed: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StorageError wraps a record-store failure. It aborts the operation that
// needed storage and is not retried internally.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
