package store

import (
	"encoding/json"
	"sync"
)

// memoryStore is the ephemeral driver used by tests. Values are still
// round-tripped through JSON so driver behaviour matches the file store.
type memoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() Store {
	return &memoryStore{data: map[string][]byte{}}
}

func (s *memoryStore) Get(key string, dest interface{}) bool {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (s *memoryStore) Set(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Remove(key string) {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
}
