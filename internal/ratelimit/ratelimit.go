// Package ratelimit provides the two throttles the pipeline relies on: a
// pacer that spaces out enrichment fetches to avoid anti-bot defenses, and a
// per-run budget for generative AI calls.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Pacer enforces a fixed minimum delay between successive calls. The delay is
// deliberately not data-dependent: block-avoidance is traded against latency.
type Pacer struct {
	mu    sync.Mutex
	delay time.Duration
	last  time.Time
}

func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay}
}

// Wait blocks until the configured delay since the previous call has elapsed
// or ctx is done. The first call returns immediately.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	var sleep time.Duration
	if !p.last.IsZero() {
		if elapsed := time.Since(p.last); elapsed < p.delay {
			sleep = p.delay - elapsed
		}
	}
	p.last = time.Now().Add(sleep)
	p.mu.Unlock()

	if sleep <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(sleep):
		return nil
	}
}

// Budget caps the number of generative AI requests in a single run.
// A max of zero or less means unlimited.
type Budget struct {
	mu   sync.Mutex
	used int
	max  int
}

func NewBudget(max int) *Budget {
	return &Budget{max: max}
}

// Allow consumes one request from the budget and reports whether the call may
// proceed.
func (b *Budget) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max > 0 && b.used >= b.max {
		return false
	}
	b.used++
	return true
}

// Used returns how many requests have been consumed.
func (b *Budget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}
