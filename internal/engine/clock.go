package engine

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock abstracts time.Now() and timers to allow deterministic testing.
// Production code uses clockwork.NewRealClock(); tests use a clockwork.FakeClock.
type Clock = clockwork.Clock

// NewRealClock returns the wall clock.
func NewRealClock() Clock {
	return clockwork.NewRealClock()
}

// OffsetClock shifts the reported wall-clock time by a fixed offset.
// It is used to preview the countdown as it will look at another moment.
// Timers and tickers are delegated unchanged since only their durations matter.
type OffsetClock struct {
	Clock
	Offset time.Duration
}

// NewOffsetClock wraps base so that Now() reports base.Now() + offset.
// A zero offset returns base itself.
func NewOffsetClock(base Clock, offset time.Duration) Clock {
	if offset == 0 {
		return base
	}
	return OffsetClock{Clock: base, Offset: offset}
}

// Now returns the shifted current time.
func (c OffsetClock) Now() time.Time {
	return c.Clock.Now().Add(c.Offset)
}

// Since returns the time elapsed since t, measured on the shifted clock.
func (c OffsetClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Until returns the duration until t, measured on the shifted clock.
func (c OffsetClock) Until(t time.Time) time.Duration {
	return t.Sub(c.Now())
}
