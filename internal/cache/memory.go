package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value string

	// UnixNano, 0 never expires
	expiresAt int64
}

func (i memoryItem) expired(now int64) bool {
	return i.expiresAt > 0 && now > i.expiresAt
}

// MemoryStore is an in-process TTL map. Expired entries are dropped lazily on
// read and by a janitor goroutine when interval > 0. There is no eviction
// beyond expiry.
type MemoryStore struct {
	mu       sync.RWMutex
	items    map[string]memoryItem
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func NewMemoryStore(interval time.Duration) *MemoryStore {
	s := &MemoryStore{
		items: make(map[string]memoryItem),
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if interval > 0 {
		go s.janitor(interval)
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	item, ok := s.items[key]
	s.mu.RUnlock()

	if !ok {
		return "", false, nil
	}
	if item.expired(s.now().UnixNano()) {
		s.mu.Lock()
		if current, ok := s.items[key]; ok && current.expired(s.now().UnixNano()) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return "", false, nil
	}
	return item.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = s.now().Add(ttl).UnixNano()
	}

	s.mu.Lock()
	s.items[key] = memoryItem{value: value, expiresAt: expiresAt}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.deleteExpired()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) deleteExpired() {
	now := s.now().UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, item := range s.items {
		if item.expired(now) {
			delete(s.items, key)
		}
	}
}
