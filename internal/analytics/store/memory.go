package store

import (
	"context"
	"sync"

	"github.com/serroba/linkshare/internal/analytics"
)

// Memory tallies shares and views per namespace/key in process memory.
type Memory struct {
	mu     sync.RWMutex
	shares map[string]int
	views  map[string]int
}

// NewMemory creates an empty in-memory analytics store.
func NewMemory() *Memory {
	return &Memory{
		shares: make(map[string]int),
		views:  make(map[string]int),
	}
}

func (m *Memory) SaveEntryShared(_ context.Context, event *analytics.EntrySharedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.shares[event.Namespace+"/"+event.Key]++

	return nil
}

func (m *Memory) SaveEntryViewed(_ context.Context, event *analytics.EntryViewedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.views[event.Namespace+"/"+event.Key]++

	return nil
}

// Shares returns how many times namespace/key was shared.
func (m *Memory) Shares(namespace, key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.shares[namespace+"/"+key]
}

// Views returns how many times namespace/key was shown.
func (m *Memory) Views(namespace, key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.views[namespace+"/"+key]
}
