package store

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/linkshare/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
type MemoryStore struct {
	allocator  *shortener.Allocator
	mu         sync.RWMutex
	namespaces map[shortener.Namespace]*memoryNamespace
}

type memoryNamespace struct {
	mu    sync.RWMutex
	byKey map[shortener.Key]shortener.Entry
	byURL map[string]shortener.Key // target url -> key
}

// NewMemoryStore creates a new in-memory entry store.
func NewMemoryStore(allocator *shortener.Allocator) *MemoryStore {
	return &MemoryStore{
		allocator:  allocator,
		namespaces: make(map[shortener.Namespace]*memoryNamespace),
	}
}

func (m *MemoryStore) PutIfAbsent(ctx context.Context, ns shortener.Namespace, targetURL string) (*shortener.Entry, bool, error) {
	space := m.namespace(ns)

	space.mu.Lock()
	defer space.mu.Unlock()

	if key, ok := space.byURL[targetURL]; ok {
		entry := space.byKey[key]

		return &entry, false, nil
	}

	return m.allocator.Allocate(ctx, ns, targetURL, func(_ context.Context, key shortener.Key) (*shortener.Entry, bool, error) {
		if _, taken := space.byKey[key]; taken {
			return nil, false, nil
		}

		entry := shortener.Entry{
			Key:       key,
			Namespace: ns,
			TargetURL: targetURL,
			CreatedAt: time.Now().UTC(),
		}

		space.byKey[key] = entry
		space.byURL[targetURL] = key

		return &entry, true, nil
	})
}

func (m *MemoryStore) Get(_ context.Context, ns shortener.Namespace, key shortener.Key) (*shortener.Entry, error) {
	m.mu.RLock()
	space, ok := m.namespaces[ns]
	m.mu.RUnlock()

	if !ok {
		return nil, shortener.ErrNotFound
	}

	space.mu.RLock()
	defer space.mu.RUnlock()

	entry, ok := space.byKey[key]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &entry, nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

// Shutdown is a no-op for MemoryStore.
func (m *MemoryStore) Shutdown() error {
	return nil
}

func (m *MemoryStore) namespace(ns shortener.Namespace) *memoryNamespace {
	m.mu.RLock()
	space, ok := m.namespaces[ns]
	m.mu.RUnlock()

	if ok {
		return space
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if space, ok = m.namespaces[ns]; ok {
		return space
	}

	space = &memoryNamespace{
		byKey: make(map[shortener.Key]shortener.Entry),
		byURL: make(map[string]shortener.Key),
	}
	m.namespaces[ns] = space

	return space
}

var _ shortener.Repository = (*MemoryStore)(nil)
