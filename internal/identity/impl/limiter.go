package impl

import (
	"sync"
	"time"
)

// limiter is a sliding window limiter keyed by subject.
type limiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	entries map[string][]time.Time
	swept   time.Time
}

func newLimiter(window time.Duration, max int) *limiter {
	return &limiter{
		window:  window,
		max:     max,
		entries: make(map[string][]time.Time),
	}
}

// Allow registers an attempt and returns false if the window is already exhausted.
func (l *limiter) Allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	l.sweep(now, cutoff)

	ts := l.entries[key]
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.max {
		l.entries[key] = kept
		return false
	}

	l.entries[key] = append(kept, now)
	return true
}

// sweep drops keys without attempts inside the window. It runs at most once per window.
func (l *limiter) sweep(now time.Time, cutoff time.Time) {
	if now.Sub(l.swept) < l.window {
		return
	}
	l.swept = now

	for k, ts := range l.entries {
		if len(ts) == 0 || !ts[len(ts)-1].After(cutoff) {
			delete(l.entries, k)
		}
	}
}
