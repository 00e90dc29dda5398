package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	timestamp time.Time
}

// Store is a mutex guarded map with an optional time to live. A ttl of zero
// keeps entries until they are overwritten or deleted.
type Store[V any] struct {
	mu    sync.Mutex
	items map[string]entry[V]
	ttl   time.Duration
	now   func() time.Time
}

func New[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		items: make(map[string]entry[V]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the cached value, or false if it is missing or expired.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	e, ok := s.items[key]
	if !ok {
		return zero, false
	}
	if s.ttl > 0 && s.now().Sub(e.timestamp) > s.ttl {
		return zero, false
	}
	return e.value, true
}

func (s *Store[V]) Set(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = entry[V]{value: value, timestamp: s.now()}
}

func (s *Store[V]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}
