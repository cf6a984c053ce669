package resilience

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum spacing between successive outbound calls.
// A single instance is shared by every caller of the orchestrator, so the
// spacing holds process-wide. A zero interval disables the gate.
type Limiter struct {
	limiter *rate.Limiter
}

func NewLimiter(minInterval time.Duration) *Limiter {
	if minInterval <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Every(minInterval), 1)}
}

// Acquire blocks until the caller may issue a call, or until ctx is done.
// Concurrent callers are serialized: each acquisition reserves its own slot,
// so no two callers observe the same safe window.
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("limiter.Wait > %w", err)
	}
	return nil
}
