package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
)

// MemoryBackend keeps objects in process memory. Used when no object
// store is configured, and in tests.
type MemoryBackend struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string][]byte
}

// NewMemoryBackend constructs an in-memory backend for the named bucket.
func NewMemoryBackend(bucket string) *MemoryBackend {
	return &MemoryBackend{
		bucket:  bucket,
		objects: make(map[string][]byte),
	}
}

// EnsureBucket is a no-op for the in-memory backend.
func (m *MemoryBackend) EnsureBucket(ctx context.Context) error {
	return nil
}

// Put stores an object under the given key.
func (m *MemoryBackend) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

// Get opens a reader for an object.
func (m *MemoryBackend) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes an object.
func (m *MemoryBackend) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Bucket returns the configured bucket name.
func (m *MemoryBackend) Bucket() string {
	return m.bucket
}
