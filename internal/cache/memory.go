package cache

import (
	"context"
	"sync"

	"github.com/quantmind-br/gamepass-catalog/internal/domain"
)

// MemoryStore is a process-local catalog cache
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*domain.CacheEntry
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*domain.CacheEntry)}
}

// Get returns the stored entry, fresh or stale
func (s *MemoryStore) Get(_ context.Context, key string) (*domain.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return entry, nil
}

// Put replaces the entry under key
func (s *MemoryStore) Put(_ context.Context, key string, entry *domain.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry
	return nil
}

// InvalidateAll removes every entry
func (s *MemoryStore) InvalidateAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.entries)
	return nil
}

// Len returns the number of stored entries
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
