package storage

import (
	"alcyxob/traindoc/internal/domain"
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const memoryHandlePrefix = "mem:"

// memoryBackend keeps document bytes inline in process memory, the web
// platform's blob-store equivalent. Handles look like "mem:<uuid>".
type memoryBackend struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryBackend creates an in-memory byte store.
func NewMemoryBackend() Backend {
	return &memoryBackend{objects: make(map[string][]byte)}
}

func (m *memoryBackend) Store(ctx context.Context, nameHint string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyObject
	}
	handle := memoryHandlePrefix + uuid.NewString()

	// Copy so later caller mutations cannot corrupt the stored object.
	stored := make([]byte, len(data))
	copy(stored, data)

	m.mu.Lock()
	m.objects[handle] = stored
	m.mu.Unlock()
	return handle, nil
}

func (m *memoryBackend) Retrieve(ctx context.Context, handle string) ([]byte, error) {
	if !strings.HasPrefix(handle, memoryHandlePrefix) {
		return nil, ErrObjectNotFound
	}
	m.mu.RLock()
	stored, ok := m.objects[handle]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrObjectNotFound
	}
	out := make([]byte, len(stored))
	copy(out, stored)
	return out, nil
}

func (m *memoryBackend) Exists(ctx context.Context, handle string) (bool, error) {
	m.mu.RLock()
	_, ok := m.objects[handle]
	m.mu.RUnlock()
	return ok, nil
}

func (m *memoryBackend) Delete(ctx context.Context, handle string) error {
	m.mu.Lock()
	delete(m.objects, handle)
	m.mu.Unlock()
	return nil
}

func (m *memoryBackend) Origin() domain.PlatformOrigin { return domain.OriginWeb }

func (m *memoryBackend) Name() string { return "memory" }
