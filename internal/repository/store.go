package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a task or template does not exist.
var ErrNotFound = errors.New("resource not found")

// Store is the injected persistence interface: an opaque keyed byte store.
// Collections are stored as whole JSON documents under well-known keys and
// fully rewritten on every mutation; there are no partial writes.
// Get returns (nil, nil) for a key that was never written.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
