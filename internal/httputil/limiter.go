// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces calls so that consecutive Wait returns are at least one
// interval apart. It is safe for concurrent use; a nil Limiter, or one built
// with a non-positive interval, never waits.
type Limiter struct {
	rl *rate.Limiter
}

// NewLimiter returns a Limiter with the given spacing and a burst of one.
func NewLimiter(interval time.Duration) *Limiter {
	if interval <= 0 {
		return &Limiter{}
	}
	return &Limiter{rl: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the caller may send its request or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.rl == nil {
		return ctx.Err()
	}
	return l.rl.Wait(ctx)
}
