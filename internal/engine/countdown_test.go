package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-vernissage/internal/engine"
)

var launchNight = time.Date(2026, 11, 20, 19, 0, 0, 0, time.UTC)

func TestRemaining(t *testing.T) {
	tests := []struct {
		name string
		left time.Duration
		want engine.Snapshot
	}{
		{"one of each", 90061 * time.Second, engine.Snapshot{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}},
		{"mixed", 2*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second, engine.Snapshot{Days: 2, Hours: 3, Minutes: 4, Seconds: 5}},
		{"maximum sub-day fields", 23*time.Hour + 59*time.Minute + 59*time.Second, engine.Snapshot{Hours: 23, Minutes: 59, Seconds: 59}},
		{"fraction is floored", 1500 * time.Millisecond, engine.Snapshot{Seconds: 1}},
		{"under one second is not expired", 999 * time.Millisecond, engine.Snapshot{}},
		{"exactly at target", 0, engine.Snapshot{Expired: true}},
		{"one second late", -time.Second, engine.Snapshot{Expired: true}},
		{"a year late", -365 * 24 * time.Hour, engine.Snapshot{Expired: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := launchNight.Add(-tt.left)
			assert.Equal(t, tt.want, engine.Remaining(launchNight, now))
		})
	}
}

func TestRemaining_NeverNegative(t *testing.T) {
	for offset := -72 * time.Hour; offset <= 72*time.Hour; offset += 37*time.Minute + 13*time.Second {
		s := engine.Remaining(launchNight, launchNight.Add(offset))
		assert.GreaterOrEqual(t, s.Days, 0)
		assert.GreaterOrEqual(t, s.Hours, 0)
		assert.GreaterOrEqual(t, s.Minutes, 0)
		assert.GreaterOrEqual(t, s.Seconds, 0)
		assert.Equal(t, offset >= 0, s.Expired, "offset %s", offset)
	}
}

func TestSnapshot_Display(t *testing.T) {
	assert.Equal(t, "01:01:01:01", engine.Snapshot{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}.Display())
	assert.Equal(t, "120:00:09:59", engine.Snapshot{Days: 120, Minutes: 9, Seconds: 59}.Display())
	assert.Equal(t, "00:00:00:00", engine.Snapshot{Expired: true}.Display())
}

// receive waits for the next snapshot or fails the test.
func receive(t *testing.T, ch <-chan engine.Snapshot) engine.Snapshot {
	t.Helper()
	select {
	case s, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return s
	case <-time.After(time.Second):
		require.FailNow(t, "timed out waiting for snapshot")
		return engine.Snapshot{}
	}
}

func TestCountdown_TicksOnClock(t *testing.T) {
	fc := clockwork.NewFakeClockAt(launchNight.Add(-10 * time.Second))
	cd := engine.NewCountdown(fc, launchNight, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := cd.Subscribe(4)
	cd.Start(ctx)
	defer cd.Stop()

	// The first snapshot is published synchronously by Start.
	assert.Equal(t, engine.Snapshot{Seconds: 10}, receive(t, sub))

	fc.Advance(time.Second)
	assert.Equal(t, engine.Snapshot{Seconds: 9}, receive(t, sub))
	assert.Equal(t, engine.Snapshot{Seconds: 9}, cd.Current())
}

func TestCountdown_Expires(t *testing.T) {
	fc := clockwork.NewFakeClockAt(launchNight.Add(-2 * time.Second))
	cd := engine.NewCountdown(fc, launchNight, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cd.Start(ctx)
	defer cd.Stop()

	require.False(t, cd.Current().Expired)

	require.Eventually(t, func() bool {
		fc.Advance(time.Second)
		return cd.Current().Expired
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, engine.Snapshot{Expired: true}, cd.Current())
}

func TestCountdown_PastTargetExpiresImmediately(t *testing.T) {
	fc := clockwork.NewFakeClockAt(launchNight.Add(time.Hour))
	cd := engine.NewCountdown(fc, launchNight, time.Second)

	assert.Equal(t, engine.Snapshot{Expired: true}, cd.Current())
}

func TestCountdown_StopClosesSubscribers(t *testing.T) {
	fc := clockwork.NewFakeClockAt(launchNight.Add(-time.Hour))
	cd := engine.NewCountdown(fc, launchNight, time.Second)
	sub := cd.Subscribe(1)

	cd.Start(context.Background())
	cd.Stop()

	// Drain whatever was buffered, then expect the close.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-sub:
			if !ok {
				return
			}
		case <-deadline:
			require.FailNow(t, "subscriber channel was not closed")
		}
	}
}

func TestCountdown_StopWithoutStart(t *testing.T) {
	cd := engine.NewCountdown(clockwork.NewFakeClock(), launchNight, time.Second)
	assert.NotPanics(t, cd.Stop)
}

func TestCountdown_Unsubscribe(t *testing.T) {
	cd := engine.NewCountdown(clockwork.NewFakeClockAt(launchNight), launchNight, time.Second)
	sub := cd.Subscribe(1)

	cd.Unsubscribe(sub)
	_, ok := <-sub
	assert.False(t, ok)

	assert.NotPanics(t, func() { cd.Unsubscribe(sub) })
}

func TestCountdown_Retarget(t *testing.T) {
	fc := clockwork.NewFakeClockAt(launchNight.Add(-time.Minute))
	cd := engine.NewCountdown(fc, launchNight, time.Second)
	sub := cd.Subscribe(1)

	cd.Retarget(launchNight.Add(time.Hour))

	assert.Equal(t, engine.Snapshot{Hours: 1, Minutes: 1}, receive(t, sub))
	assert.Equal(t, launchNight.Add(time.Hour), cd.Target())
}

func TestCountdown_OffsetClock(t *testing.T) {
	base := clockwork.NewFakeClockAt(launchNight.Add(-48 * time.Hour))
	shifted := engine.NewOffsetClock(base, 47*time.Hour)

	cd := engine.NewCountdown(shifted, launchNight, time.Second)
	assert.Equal(t, engine.Snapshot{Hours: 1}, cd.Current())
}
