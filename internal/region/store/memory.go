package store

import (
	"context"
	"encoding/json"
	"sync"

	"eramap/pkg/platform/sentinel"
)

// In-memory stores back tests and single-process deployments. They
// intentionally favor clarity over performance.

type MemoryCacheStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryCacheStore() *MemoryCacheStore {
	return &MemoryCacheStore{entries: make(map[string]Entry)}
}

func (s *MemoryCacheStore) Get(_ context.Context, key string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if entry, ok := s.entries[key]; ok {
		return entry, nil
	}
	return Entry{}, sentinel.ErrNotFound
}

func (s *MemoryCacheStore) Set(_ context.Context, key string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
	return nil
}

func (s *MemoryCacheStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryCacheStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Entry)
	return nil
}

func (s *MemoryCacheStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats Stats
	var bytes int
	for _, entry := range s.entries {
		stats.Entries++
		if data, err := json.Marshal(entry); err == nil {
			bytes += len(data)
		}
		if stats.Oldest.IsZero() || entry.CachedAt.Before(stats.Oldest) {
			stats.Oldest = entry.CachedAt
		}
		if entry.CachedAt.After(stats.Newest) {
			stats.Newest = entry.CachedAt
		}
	}
	stats.SizeKB = float64(bytes) / 1024
	return stats, nil
}

type MemoryCustomStore struct {
	mu       sync.RWMutex
	mappings map[string]CustomMapping
	names    map[string]string // normalized -> display name
}

func NewMemoryCustomStore() *MemoryCustomStore {
	return &MemoryCustomStore{
		mappings: make(map[string]CustomMapping),
		names:    make(map[string]string),
	}
}

func (s *MemoryCustomStore) Set(_ context.Context, period string, mapping CustomMapping) error {
	key := NormalizePeriod(period)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[key] = mapping
	s.names[key] = period
	return nil
}

func (s *MemoryCustomStore) Get(_ context.Context, period string) (CustomMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if mapping, ok := s.mappings[NormalizePeriod(period)]; ok {
		return mapping, nil
	}
	return CustomMapping{}, sentinel.ErrNotFound
}

func (s *MemoryCustomStore) Delete(_ context.Context, period string) error {
	key := NormalizePeriod(period)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mappings, key)
	delete(s.names, key)
	return nil
}

func (s *MemoryCustomStore) List(_ context.Context) (map[string]CustomMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]CustomMapping, len(s.mappings))
	for key, mapping := range s.mappings {
		out[s.names[key]] = mapping
	}
	return out, nil
}

func (s *MemoryCustomStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings = make(map[string]CustomMapping)
	s.names = make(map[string]string)
	return nil
}
