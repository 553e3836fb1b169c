package storage

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
)

type memoryStore struct {
	entries map[string][]byte
	mu      sync.RWMutex
}

// NewMemoryStore creates a Store held in process memory. Values are copied
// on the way in and out.
func NewMemoryStore() Store {
	return &memoryStore{entries: make(map[string][]byte)}
}

func (s *memoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *memoryStore) Load(_ context.Context, keys ...string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		val, ok := s.entries[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		entries = append(entries, Entry{Key: key, Value: slices.Clone(val)})
	}
	return entries, nil
}

func (s *memoryStore) Save(_ context.Context, entries ...Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		s.entries[e.Key] = slices.Clone(e.Value)
	}
	return nil
}

func (s *memoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}
