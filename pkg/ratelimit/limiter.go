// Package ratelimit spaces outgoing RPC calls: a Limiter grants at most one
// caller per interval and queues the rest in arrival order.
package ratelimit

import (
	"context"
	"time"

	"github.com/juju/clock"
)

// Limiter enforces a minimum interval between successive grants.
//
// The zero value is not usable; construct with New.
type Limiter struct {
	// sem is a one-slot semaphore guarding last. A waiter keeps the slot for
	// the whole wait so the next caller measures from its grant. Blocked
	// senders on a channel are served FIFO.
	sem      chan struct{}
	last     time.Time
	interval time.Duration
	clock    clock.Clock
}

// New returns a Limiter granting one call per interval. A non-positive
// interval disables waiting. A nil clock means clock.WallClock.
func New(interval time.Duration, clk clock.Clock) *Limiter {
	if clk == nil {
		clk = clock.WallClock
	}
	if interval < 0 {
		interval = 0
	}
	return &Limiter{
		sem:      make(chan struct{}, 1),
		interval: interval,
		clock:    clk,
	}
}

// Interval returns the configured minimum spacing.
func (l *Limiter) Interval() time.Duration { return l.interval }

// Wait blocks until at least the interval has elapsed since the previous
// grant, then records the grant and returns. It returns ctx.Err() if the
// context ends first; a cancelled waiter does not count as a grant.
func (l *Limiter) Wait(ctx context.Context) error {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-l.sem }()

	if l.interval > 0 && !l.last.IsZero() {
		if wait := l.interval - l.clock.Now().Sub(l.last); wait > 0 {
			select {
			case <-l.clock.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	l.last = l.clock.Now()
	return nil
}
