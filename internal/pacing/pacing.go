// Package pacing spaces out browser actions with uniformly random delays so the
// crawl cadence does not look mechanical.
package pacing

import (
	"context"
	"math/rand/v2"
	"time"
)

const (
	DefaultMin = 2 * time.Second
	DefaultMax = 6 * time.Second
)

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Option configures a Pacer.
type Option func(*Pacer)

// WithRand injects the randomness source (primarily for tests).
func WithRand(r *rand.Rand) Option {
	return func(p *Pacer) {
		if r != nil {
			p.rng = r
		}
	}
}

// WithSleeper replaces the blocking sleep (primarily for tests).
func WithSleeper(s Sleeper) Option {
	return func(p *Pacer) {
		if s != nil {
			p.sleep = s
		}
	}
}

// Pacer draws delays uniformly from [min, max].
type Pacer struct {
	min   time.Duration
	max   time.Duration
	rng   *rand.Rand
	sleep Sleeper
}

// New constructs a Pacer. Non-positive bounds fall back to the defaults and
// swapped bounds are reordered.
func New(minDelay, maxDelay time.Duration, opts ...Option) *Pacer {
	if minDelay < 0 {
		minDelay = 0
	}
	if maxDelay <= 0 {
		maxDelay = DefaultMax
	}
	if minDelay > maxDelay {
		minDelay, maxDelay = maxDelay, minDelay
	}
	p := &Pacer{
		min:   minDelay,
		max:   maxDelay,
		rng:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Bounds returns the configured interval.
func (p *Pacer) Bounds() (time.Duration, time.Duration) {
	return p.min, p.max
}

// Next draws the next delay without sleeping.
func (p *Pacer) Next() time.Duration {
	span := p.max - p.min
	if span <= 0 {
		return p.min
	}
	return p.min + time.Duration(p.rng.Int64N(int64(span)+1))
}

// Delay blocks for a random duration. It returns ctx.Err() when the context
// ends first.
func (p *Pacer) Delay(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.sleep(ctx, p.Next())
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
