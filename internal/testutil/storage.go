package testutil

import (
	"context"
	"io"
	"sync"
	"time"
)

// MemoryStorage is an in-memory asset host. PutErr and DeleteErr force failures;
// PutDelay stalls Put until the delay passes or the context ends.
type MemoryStorage struct {
	mu        sync.Mutex
	Objects   map[string][]byte
	Types     map[string]string
	Deleted   []string
	PutErr    error
	DeleteErr error
	PutDelay  time.Duration
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{Objects: map[string][]byte{}, Types: map[string]string{}}
}

func (m *MemoryStorage) EnsureBucket(context.Context) error { return nil }

func (m *MemoryStorage) Put(ctx context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if m.PutDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.PutDelay):
		}
	}
	if m.PutErr != nil {
		return m.PutErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = data
	m.Types[key] = contentType
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	m.Deleted = append(m.Deleted, key)
	return nil
}

func (m *MemoryStorage) URL(key string) string { return "https://assets.test/" + key }

func (m *MemoryStorage) Bucket() string { return "test" }

func (m *MemoryStorage) Name() string { return "memory" }

// Len reports how many objects are stored.
func (m *MemoryStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}
