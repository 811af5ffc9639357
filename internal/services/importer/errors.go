package importer

import (
	"errors"
	"fmt"
)

var (
	// ErrConcurrentUpdate means another writer advanced the snapshot first
	ErrConcurrentUpdate = errors.New("snapshot was modified concurrently")
	// ErrUnknownKind is returned for kinds without a snapshot
	ErrUnknownKind = errors.New("unknown import kind")
	// ErrNotConfigured means ERP credentials are missing
	ErrNotConfigured = errors.New("bizzio API credentials are not configured")
)

// PersistenceError is a failed catalog write for one record
type PersistenceError struct {
	Kind string
	Key  string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to import %s %q: %v", e.Kind, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
