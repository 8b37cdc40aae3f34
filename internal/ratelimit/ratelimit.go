// Package ratelimit implements the per-sender admission counter that bounds
// inbound message throughput and absorbs abusive or looped traffic (e.g.
// bot-to-bot echo loops).
//
// The algorithm is a fixed 60-second window per sender: the first admission
// opens a window, subsequent admissions increment a counter, and once the
// counter reaches the configured maximum further requests are rejected with
// the time remaining until the window clears. Expired windows are lazily
// reset on next access; a background sweep is not required for correctness,
// only for memory hygiene, so idle windows are additionally evicted
// opportunistically during lookups (same approach as the HTTP edge limiter).
//
// State is held in an explicitly owned map guarded by a mutex rather than a
// package-level singleton, so tests construct isolated instances and a later
// deployment can swap the store for a shared cache without changing callers.
//
// This type is safe for concurrent use: the read-increment-compare sequence
// in Admit runs under the lock, so two simultaneous admissions for one
// sender can never both observe the same pre-increment count.
package ratelimit

import (
	"sync"
	"time"
)

// Config carries the limiter tunables. Zero values are coerced to defaults
// by New.
type Config struct {
	// MaxPerWindow is the number of admissions allowed per sender within
	// one window. Default 5.
	MaxPerWindow int
	// Window is the accounting period. Default 60s.
	Window time.Duration
	// StaleTTL is how long an idle sender window is retained before the
	// opportunistic sweep may evict it. Default 10m.
	StaleTTL time.Duration
}

// Decision is the outcome of a single admission check.
type Decision struct {
	// Allowed reports whether the message may proceed.
	Allowed bool
	// Remaining is the number of admissions left in the current window
	// after this decision.
	Remaining int
	// RetryAfter is how long the sender must wait before the window
	// clears. Zero when Allowed.
	RetryAfter time.Duration
}

// senderWindow tracks one sender's current accounting period.
type senderWindow struct {
	start    time.Time
	count    int
	lastSeen time.Time
}

// Limiter is the per-sender fixed-window admission counter.
type Limiter struct {
	cfg Config

	mu      sync.Mutex
	windows map[string]*senderWindow
	sweepN  uint64
}

// sweepEvery is the number of Admit calls between opportunistic sweeps of
// stale windows.
const sweepEvery = 5000

// New constructs a Limiter. Non-positive config fields fall back to the
// documented defaults.
func New(cfg Config) *Limiter {
	if cfg.MaxPerWindow <= 0 {
		cfg.MaxPerWindow = 5
	}
	if cfg.Window <= 0 {
		cfg.Window = 60 * time.Second
	}
	if cfg.StaleTTL <= 0 {
		cfg.StaleTTL = 10 * time.Minute
	}
	return &Limiter{
		cfg:     cfg,
		windows: make(map[string]*senderWindow),
	}
}

// Admit decides whether a message from senderID observed at now may proceed.
//
// Behavior:
//   - No window, or the current window has elapsed: a fresh window opens
//     with count 1 and the message is admitted.
//   - Open window with capacity: the counter increments and the message is
//     admitted.
//   - Open window at capacity: the message is rejected, the counter stays
//     capped (no unbounded growth), and RetryAfter carries the remainder of
//     the window.
//
// The caller supplies now so tests control the clock and window expiry is
// decided against the event's own timestamp rather than wall-clock drift.
func (l *Limiter) Admit(senderID string, now time.Time) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Opportunistic eviction of idle windows. Runs before the lookup so an
	// expired entry for this very sender is handled by the reset path below,
	// not resurrected here.
	l.sweepN++
	if l.sweepN >= sweepEvery {
		for id, w := range l.windows {
			if now.Sub(w.lastSeen) >= l.cfg.StaleTTL {
				delete(l.windows, id)
			}
		}
		l.sweepN = 0
	}

	w, ok := l.windows[senderID]
	if !ok || now.Sub(w.start) >= l.cfg.Window {
		l.windows[senderID] = &senderWindow{start: now, count: 1, lastSeen: now}
		return Decision{Allowed: true, Remaining: l.cfg.MaxPerWindow - 1}
	}

	w.lastSeen = now
	if w.count < l.cfg.MaxPerWindow {
		w.count++
		return Decision{Allowed: true, Remaining: l.cfg.MaxPerWindow - w.count}
	}

	return Decision{
		Allowed:    false,
		Remaining:  0,
		RetryAfter: l.cfg.Window - now.Sub(w.start),
	}
}

// Len reports the number of sender windows currently retained. Intended for
// hygiene metrics and tests.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
