// Package ratelimit bounds upload attempts per identity within a rolling
// window. The window state lives behind WindowStore so the in-memory store can
// be swapped for a shared one without touching call sites.
package ratelimit

import (
	"time"

	"github.com/dmitrijs2005/photoframe/internal/common"
)

// WindowStore owns the per-key window state. Bump must be atomic per key:
// if no window exists for key, or the stored window started more than length
// ago at now, a fresh window starting at now with count 1 replaces it;
// otherwise the count is incremented. It returns the post-increment count.
//
// A rejected attempt still counts, so hammering past the limit never extends
// the caller's allowance.
type WindowStore interface {
	Bump(key string, now time.Time, length time.Duration) int
}

// Limiter allows at most Max attempts per key within a window of Length.
type Limiter struct {
	store  WindowStore
	max    int
	length time.Duration
	now    func() time.Time
}

func New(store WindowStore, max int, length time.Duration) *Limiter {
	return &Limiter{
		store:  store,
		max:    max,
		length: length,
		now:    time.Now,
	}
}

// Allow records one attempt for key and reports whether it is within the
// limit. Over-limit attempts fail with common.ErrRateLimitExceeded.
func (l *Limiter) Allow(key string) error {
	count := l.store.Bump(key, l.now(), l.length)
	if count > l.max {
		return common.ErrRateLimitExceeded
	}
	return nil
}
