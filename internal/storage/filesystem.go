package storage

import (
	"alcyxob/traindoc/internal/domain"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// filesystemBackend stores documents as files under a base directory, the
// mobile platform's local-path storage. The handle is the absolute path.
type filesystemBackend struct {
	baseDir string
}

// NewFilesystemBackend creates a file-backed byte store rooted at baseDir.
func NewFilesystemBackend(baseDir string) (Backend, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", abs, err)
	}
	return &filesystemBackend{baseDir: abs}, nil
}

func (f *filesystemBackend) Store(ctx context.Context, nameHint string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyObject
	}
	ext := filepath.Ext(nameHint)
	path := filepath.Join(f.baseDir, uuid.NewString()+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (f *filesystemBackend) Retrieve(ctx context.Context, handle string) ([]byte, error) {
	data, err := os.ReadFile(handle)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyObject
	}
	return data, nil
}

func (f *filesystemBackend) Exists(ctx context.Context, handle string) (bool, error) {
	info, err := os.Stat(handle)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Size() > 0, nil
}

func (f *filesystemBackend) Delete(ctx context.Context, handle string) error {
	err := os.Remove(handle)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (f *filesystemBackend) Origin() domain.PlatformOrigin { return domain.OriginMobile }

func (f *filesystemBackend) Name() string { return "filesystem" }
