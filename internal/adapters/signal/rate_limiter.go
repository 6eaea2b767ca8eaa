package signal

import (
	"sync"
	"time"

	"github.com/dkeye/Consult/internal/core"
)

// RateLimiter caps inbound events per connection over a sliding window.
type RateLimiter struct {
	mu       sync.Mutex
	history  map[core.ConnID][]time.Time
	limit    int
	interval time.Duration
	now      func() time.Time
}

func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		history:  make(map[core.ConnID][]time.Time),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

func (rl *RateLimiter) Allow(id core.ConnID) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	windowStart := now.Add(-rl.interval)

	attempts := rl.history[id]
	fresh := attempts[:0]
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[id] = fresh
		return false
	}

	rl.history[id] = append(fresh, now)
	return true
}

// Forget drops the history of a closed connection.
func (rl *RateLimiter) Forget(id core.ConnID) {
	rl.mu.Lock()
	delete(rl.history, id)
	rl.mu.Unlock()
}
