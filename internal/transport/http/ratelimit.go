package http

import (
	"sync"
	"time"
)

// rateLimiter caps how many times an action may happen per minute. Used to
// keep the unauthenticated guest endpoint from minting accounts in bulk.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	counter int
	reset   *time.Ticker
}

func newRateLimiter(limit int) *rateLimiter {
	if limit <= 0 {
		return &rateLimiter{limit: 0}
	}
	return &rateLimiter{
		limit: limit,
		reset: time.NewTicker(time.Minute),
	}
}

func (r *rateLimiter) allow() bool {
	if r == nil || r.limit <= 0 {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	return r.counter <= r.limit
}

// startReset clears the counter once a minute. The limiter guards a
// process-lifetime endpoint, so the goroutine runs until exit.
func (r *rateLimiter) startReset() {
	if r == nil || r.reset == nil {
		return
	}
	go func() {
		for range r.reset.C {
			r.mu.Lock()
			r.counter = 0
			r.mu.Unlock()
		}
	}()
}
