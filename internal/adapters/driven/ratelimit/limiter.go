// Package ratelimit paces calls to external classification services.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
)

// Ensure both limiters implement the interface.
var (
	_ driven.RateLimiter = (*Limiter)(nil)
	_ driven.RateLimiter = Noop{}
)

// DefaultBackoff is the pause applied when Backoff is called with zero.
const DefaultBackoff = 30 * time.Second

// Limiter allows one call per interval with a burst of one, plus an
// optional backoff window after the service reports throttling.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	now     func() time.Time
}

// New creates a limiter with the given minimum gap between calls.
// A non-positive interval disables pacing but keeps backoff.
func New(interval time.Duration) *Limiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Limiter{
		limiter: rate.NewLimiter(limit, 1),
		now:     time.Now,
	}
}

// Wait blocks until the backoff window has passed and a token is free.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if wait := retryAt.Sub(l.now()); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return l.limiter.Wait(ctx)
}

// Backoff blocks further calls for d, or DefaultBackoff when d is zero.
func (l *Limiter) Backoff(d time.Duration) {
	if d <= 0 {
		d = DefaultBackoff
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if until := l.now().Add(d); until.After(l.retryAt) {
		l.retryAt = until
	}
}

// Noop never waits. It is used by the offline keyword classifier.
type Noop struct{}

// Wait returns immediately unless ctx is done.
func (Noop) Wait(ctx context.Context) error {
	return ctx.Err()
}
