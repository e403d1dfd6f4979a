package storage

import (
	"alcyxob/traindoc/internal/domain"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

// backendUnderTest lets the shared contract tests run against every local
// backend implementation.
func backends(t *testing.T) map[string]Backend {
	t.Helper()
	fs, err := NewFilesystemBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return map[string]Backend{
		"memory":     NewMemoryBackend(),
		"filesystem": fs,
	}
}

func TestBackendRoundTrip(t *testing.T) {
	payload := []byte("Week 1\nMonday 90 minutes\n\x00binary tail")
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			handle, err := backend.Store(ctx, "plan.txt", payload)
			if err != nil {
				t.Fatal(err)
			}
			if handle == "" {
				t.Fatal("empty handle")
			}

			got, err := backend.Retrieve(ctx, handle)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, payload) {
				t.Error("retrieved bytes differ from stored bytes")
			}

			exists, err := backend.Exists(ctx, handle)
			if err != nil || !exists {
				t.Errorf("Exists = %v, %v", exists, err)
			}
		})
	}
}

func TestBackendRejectsEmptyPayload(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := backend.Store(context.Background(), "empty.txt", nil); !errors.Is(err, ErrEmptyObject) {
				t.Errorf("Store(nil) err = %v, want ErrEmptyObject", err)
			}
		})
	}
}

func TestBackendDelete(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			handle, err := backend.Store(ctx, "plan.txt", []byte("bytes"))
			if err != nil {
				t.Fatal(err)
			}
			if err := backend.Delete(ctx, handle); err != nil {
				t.Fatal(err)
			}
			if _, err := backend.Retrieve(ctx, handle); !errors.Is(err, ErrObjectNotFound) {
				t.Errorf("Retrieve after delete err = %v, want ErrObjectNotFound", err)
			}
			// Deleting again is not an error.
			if err := backend.Delete(ctx, handle); err != nil {
				t.Errorf("second Delete err = %v", err)
			}
		})
	}
}

func TestBackendUnknownHandle(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			exists, err := backend.Exists(ctx, "no-such-handle")
			if err != nil {
				t.Fatalf("Exists err = %v", err)
			}
			if exists {
				t.Error("unknown handle reported as existing")
			}
			if _, err := backend.Retrieve(ctx, "no-such-handle"); !errors.Is(err, ErrObjectNotFound) {
				t.Errorf("Retrieve err = %v, want ErrObjectNotFound", err)
			}
		})
	}
}

func TestMemoryBackendIsolation(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	payload := []byte("original")
	handle, err := backend.Store(ctx, "a.txt", payload)
	if err != nil {
		t.Fatal(err)
	}
	payload[0] = 'X' // caller mutation after store

	got, err := backend.Retrieve(ctx, handle)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "original" {
		t.Errorf("stored bytes were corrupted by caller mutation: %q", got)
	}

	got[0] = 'Y' // caller mutation after retrieve
	again, _ := backend.Retrieve(ctx, handle)
	if string(again) != "original" {
		t.Errorf("stored bytes were corrupted by reader mutation: %q", again)
	}
}

func TestBackendIdentity(t *testing.T) {
	for name, backend := range backends(t) {
		if backend.Name() != name {
			t.Errorf("Name() = %q, want %q", backend.Name(), name)
		}
	}
	if NewMemoryBackend().Origin() != domain.OriginWeb {
		t.Error("memory backend origin")
	}
	fs, _ := NewFilesystemBackend(t.TempDir())
	if fs.Origin() != domain.OriginMobile {
		t.Error("filesystem backend origin")
	}
}

func TestMemoryHandleFormat(t *testing.T) {
	backend := NewMemoryBackend()
	handle, err := backend.Store(context.Background(), "plan.txt", []byte("x"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(handle, "mem:") {
		t.Errorf("handle = %q", handle)
	}
}

func TestFilesystemHandleCarriesExtension(t *testing.T) {
	fs, err := NewFilesystemBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	handle, err := fs.Store(context.Background(), "plan.docx", []byte("bytes"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(handle, ".docx") {
		t.Errorf("handle = %q, want .docx suffix", handle)
	}
}
