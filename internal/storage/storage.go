package storage

import (
	"alcyxob/traindoc/internal/domain"
	"context"
	"errors"
)

// Error constants for the storage layer.
var (
	ErrObjectNotFound = errors.New("object not found in storage")
	ErrEmptyObject    = errors.New("stored object is empty")
)

// Backend is the byte store behind document storage handles. Implementations
// are selected once at construction; no caller branches on platform after
// that. Handles are opaque to callers — only the backend that issued a
// handle can resolve it.
type Backend interface {
	// Store persists data and returns the handle under which it can be
	// retrieved. nameHint influences the handle (e.g. file extension) but
	// uniqueness is the backend's responsibility.
	Store(ctx context.Context, nameHint string, data []byte) (handle string, err error)

	// Retrieve resolves a handle to the stored bytes. A handle that no
	// longer resolves returns ErrObjectNotFound.
	Retrieve(ctx context.Context, handle string) ([]byte, error)

	// Exists reports whether the handle still resolves to stored bytes.
	Exists(ctx context.Context, handle string) (bool, error)

	// Delete releases the stored object. Deleting an unknown handle is not
	// an error.
	Delete(ctx context.Context, handle string) error

	// Origin identifies the platform family documents stored here belong to.
	Origin() domain.PlatformOrigin

	// Name is the backend tag persisted on document metadata.
	Name() string
}
