package ratelimit

import (
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// MemoryStore is an in-process WindowStore: one map guarded by a mutex, with
// expired entries swept opportunistically so idle keys do not accumulate.
type MemoryStore struct {
	mu              sync.Mutex
	windows         map[string]*window
	cleanupInterval time.Duration
	lastCleanup     time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows:         make(map[string]*window),
		cleanupInterval: 5 * time.Minute,
		lastCleanup:     time.Now(),
	}
}

func (s *MemoryStore) Bump(key string, now time.Time, length time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cleanupInterval > 0 && now.Sub(s.lastCleanup) >= s.cleanupInterval {
		for k, w := range s.windows {
			if now.Sub(w.start) >= length {
				delete(s.windows, k)
			}
		}
		s.lastCleanup = now
	}

	w, ok := s.windows[key]
	if !ok || now.Sub(w.start) >= length {
		s.windows[key] = &window{start: now, count: 1}
		return 1
	}

	w.count++
	return w.count
}
