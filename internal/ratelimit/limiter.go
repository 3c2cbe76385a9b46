package ratelimit

import (
	"sync"
	"time"
)

// entry tracks one client's request count inside the current window.
type entry struct {
	count   int
	resetAt time.Time
}

// Limiter is a fixed-window request counter keyed by client address. Windows
// reset at fixed boundaries rather than sliding, so a client can burst up to
// 2x the limit across a boundary; that is fine for abuse deterrence, which is
// all this is for.
//
// Entries are never evicted. One small struct per distinct client key is
// acceptable for a short-lived process (Lambda instance / restarted
// container); a long-running multi-tenant deployment would need a sweep or an
// LRU cap.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string]*entry
	nowFunc func() time.Time
}

// New returns a Limiter allowing `limit` requests per `window` per key.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*entry),
		nowFunc: time.Now,
	}
}

// Allow reports whether a request from clientKey may proceed, counting it if
// so. A rejected request does not consume budget. Safe for concurrent use;
// updates to a key's counter are serialized so the limit cannot be
// under-enforced by racing requests.
func (l *Limiter) Allow(clientKey string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	e, ok := l.entries[clientKey]
	if !ok || now.After(e.resetAt) {
		l.entries[clientKey] = &entry{count: 1, resetAt: now.Add(l.window)}
		return true
	}
	if e.count >= l.limit {
		return false
	}
	e.count++
	return true
}
