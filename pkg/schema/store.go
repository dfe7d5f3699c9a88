package schema

import (
	"context"
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrUnknownBackend is returned by OpenStore for an unrecognised backend name.
	ErrUnknownBackend = errors.New("unknown store backend")

	// ErrStoreClosed is returned when using a store after Close.
	ErrStoreClosed = errors.New("store is closed")
)

// StoreError wraps errors with operation context.
type StoreError struct {
	Op  string // Operation name
	Err error  // Underlying error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("schemastore: %v", e.Err)
	}
	return fmt.Sprintf("schemastore: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target.
func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// wrapError wraps an error with operation context.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// Store is the persistence abstraction for the schema table.
//
// Implementations must round-trip: Save followed by Load yields a mapping with
// identical keys and equal Count/CumulativeStrength/LastSeen for every entry.
// A Load against a missing file or empty database returns an empty, non-nil map.
type Store interface {
	// Load reads the full schema mapping from storage.
	Load(ctx context.Context) (map[PairKey]*Schema, error)

	// Save mirrors the in-memory mapping to storage, replacing any previous
	// contents. Save may lag the in-memory state; callers throttle it.
	Save(ctx context.Context, mapping map[PairKey]*Schema) error

	// Close releases any resources held by the store.
	Close() error
}

// Backend names accepted by OpenStore.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// OpenStore constructs a Store for the given backend name and path.
func OpenStore(backend, path string) (Store, error) {
	switch backend {
	case BackendJSON:
		return NewJSONStore(path), nil
	case BackendSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, wrapError("open", fmt.Errorf("%w: %q", ErrUnknownBackend, backend))
	}
}
