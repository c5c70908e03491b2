// Package jitter produces randomised pauses between page interactions.
package jitter

import (
	"context"
	"math/rand/v2"
	"time"
)

// Range is an inclusive delay interval.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// DefaultRange matches the pacing used for every page interaction.
var DefaultRange = Range{Min: 1000 * time.Millisecond, Max: 5000 * time.Millisecond}

// Next returns a uniformly random duration in [Min, Max] with millisecond
// granularity. A Max below Min yields Min.
func (r Range) Next() time.Duration {
	lo := r.Min.Milliseconds()
	hi := r.Max.Milliseconds()
	if lo < 0 {
		lo = 0
	}
	if hi <= lo {
		return time.Duration(lo) * time.Millisecond
	}
	return time.Duration(lo+rand.Int64N(hi-lo+1)) * time.Millisecond
}

// Pick returns the first fixed override if one is given, otherwise r.Next().
func Pick(r Range, fixed ...time.Duration) time.Duration {
	if len(fixed) > 0 {
		return fixed[0]
	}
	return r.Next()
}

// Sleep blocks for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
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

// Scroll offsets, in pixels.
const (
	minScroll = 200
	maxScroll = 700
)

// ScrollAmount returns a random vertical scroll offset in [200, 700).
func ScrollAmount() int {
	return minScroll + rand.IntN(maxScroll-minScroll)
}
