package engine_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-vernissage/internal/config"
	"github.com/tartampluch/go-vernissage/internal/engine"
)

const ms = time.Millisecond

func TestTypewriter_RevealsAtSampleTimes(t *testing.T) {
	tw := engine.NewTypewriter("AB", 100*ms, 0)
	gen := tw.Generation()

	tw.Advance(gen, 0)
	assert.Equal(t, "", tw.Snapshot().Text)
	assert.False(t, tw.Snapshot().Complete())

	tw.Advance(gen, 100*ms)
	assert.Equal(t, "A", tw.Snapshot().Text)
	assert.False(t, tw.Snapshot().Complete())

	tw.Advance(gen, 100*ms)
	assert.Equal(t, "AB", tw.Snapshot().Text)
	assert.True(t, tw.Snapshot().Complete())
}

func TestTypewriter_CompletesAfterFullDuration(t *testing.T) {
	tests := []struct {
		text  string
		speed time.Duration
		delay time.Duration
	}{
		{"Light on paper", 45 * ms, 600 * ms},
		{"x", 10 * ms, 0},
		{"Vernissage à Genève", 30 * ms, 250 * ms},
		{"", 30 * ms, 100 * ms},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			length := utf8.RuneCountInString(tt.text)
			tw := engine.NewTypewriter(tt.text, tt.speed, tt.delay)

			left := tw.Advance(tw.Generation(), time.Duration(length)*tt.speed+tt.delay)

			snap := tw.Snapshot()
			assert.True(t, snap.Complete())
			assert.Equal(t, length, snap.Revealed)
			assert.Equal(t, tt.text, snap.Text)
			assert.Zero(t, left)
		})
	}
}

func TestTypewriter_NothingBeforeDelay(t *testing.T) {
	tw := engine.NewTypewriter("Hello", 10*ms, 500*ms)

	left := tw.Advance(tw.Generation(), 499*ms)

	assert.Equal(t, 0, tw.Snapshot().Revealed)
	assert.Equal(t, engine.TypeIdle, tw.Snapshot().State)
	assert.Equal(t, ms, left)
}

func TestTypewriter_ExactIncrements(t *testing.T) {
	text := "déjà vu"
	tw := engine.NewTypewriter(text, 20*ms, 0)
	gen := tw.Generation()

	var prefixes []string
	for {
		more := tw.Fire(gen)
		snap := tw.Snapshot()
		if snap.State != engine.TypeIdle && (len(prefixes) == 0 || prefixes[len(prefixes)-1] != snap.Text) {
			prefixes = append(prefixes, snap.Text)
		}
		if !more {
			break
		}
	}

	require.Len(t, prefixes, utf8.RuneCountInString(text)+1)
	for i, p := range prefixes {
		assert.Equal(t, i, utf8.RuneCountInString(p))
		assert.True(t, strings.HasPrefix(text, p))
	}
	assert.False(t, tw.Fire(gen), "a complete typewriter ignores further firings")
	assert.Equal(t, text, tw.Snapshot().Text)
}

func TestTypewriter_ResetMidReveal(t *testing.T) {
	tw := engine.NewTypewriter("first text", 10*ms, 0)
	oldGen := tw.Generation()
	tw.Advance(oldGen, 55*ms)
	require.Equal(t, "first", tw.Snapshot().Text)

	newGen := tw.Reset("second", 10*ms, 0)

	snap := tw.Snapshot()
	assert.Equal(t, 0, snap.Revealed)
	assert.Equal(t, "", snap.Text)
	assert.Equal(t, engine.TypeIdle, snap.State)
	assert.NotEqual(t, oldGen, newGen)

	// A timer left over from the first run must not touch the second one.
	assert.False(t, tw.Fire(oldGen))
	tw.Advance(oldGen, time.Second)
	assert.Equal(t, 0, tw.Snapshot().Revealed)

	tw.Advance(newGen, 20*ms)
	assert.Equal(t, "se", tw.Snapshot().Text)
}

func TestTypewriter_NormalisesTiming(t *testing.T) {
	tw := engine.NewTypewriter("abc", 0, -time.Second)

	assert.Equal(t, time.Duration(0), tw.NextDelay())
	tw.Fire(tw.Generation())
	assert.Equal(t, config.DefaultTypeSpeed, tw.NextDelay())
}

func TestTypeState_String(t *testing.T) {
	assert.Equal(t, "idle", engine.TypeIdle.String())
	assert.Equal(t, "revealing", engine.TypeRevealing.String())
	assert.Equal(t, "complete", engine.TypeComplete.String())
	assert.Equal(t, "unknown", engine.TypeState(42).String())
}

// recorder collects reveals from the typist goroutine.
type recorder struct {
	mu      sync.Mutex
	reveals []engine.Reveal
}

func (r *recorder) record(rv engine.Reveal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reveals = append(r.reveals, rv)
}

func (r *recorder) all() []engine.Reveal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]engine.Reveal(nil), r.reveals...)
}

func TestTypist_PlaysOnClock(t *testing.T) {
	fc := clockwork.NewFakeClock()
	rec := &recorder{}
	typist := engine.NewTypist(fc, rec.record)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	typist.Play(ctx, "Hi!", 100*ms, 50*ms)

	require.Eventually(t, func() bool {
		fc.Advance(50 * ms)
		return typist.Snapshot().Complete()
	}, 2*time.Second, 2*time.Millisecond)

	reveals := rec.all()
	require.NotEmpty(t, reveals)
	assert.Equal(t, engine.TypeIdle, reveals[0].State)

	last := -1
	for _, rv := range reveals {
		assert.True(t, strings.HasPrefix("Hi!", rv.Text))
		assert.GreaterOrEqual(t, rv.Revealed, last, "reveal must be monotonic")
		last = rv.Revealed
	}
	assert.Equal(t, "Hi!", reveals[len(reveals)-1].Text)
	assert.True(t, reveals[len(reveals)-1].Complete())
}

func TestTypist_PlayReplacesRun(t *testing.T) {
	fc := clockwork.NewFakeClock()
	typist := engine.NewTypist(fc, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	typist.Play(ctx, "a long first headline", 10*ms, 0)
	typist.Play(ctx, "two", 10*ms, 0)
	assert.Equal(t, 0, typist.Snapshot().Revealed)

	require.Eventually(t, func() bool {
		fc.Advance(10 * ms)
		return typist.Snapshot().Complete()
	}, 2*time.Second, 2*time.Millisecond)

	assert.Equal(t, "two", typist.Snapshot().Text)
}

func TestTypist_StopFreezesPrefix(t *testing.T) {
	fc := clockwork.NewFakeClock()
	rec := &recorder{}
	typist := engine.NewTypist(fc, rec.record)

	typist.Play(context.Background(), "frozen", 10*ms, 0)
	typist.Stop()
	time.Sleep(20 * time.Millisecond)
	frozen := typist.Snapshot()
	seen := len(rec.all())

	for i := 0; i < 20; i++ {
		fc.Advance(10 * ms)
	}
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, frozen, typist.Snapshot())
	assert.Len(t, rec.all(), seen)
}

func TestTypist_ResetWaitsForInFlightReveal(t *testing.T) {
	fc := clockwork.NewFakeClock()
	entered := make(chan struct{})
	release := make(chan struct{})
	rec := &recorder{}
	typist := engine.NewTypist(fc, func(rv engine.Reveal) {
		if rv.Text == "A" {
			close(entered)
			<-release
		}
		rec.record(rv)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	typist.Play(ctx, "AB", 10*ms, 0)
	require.Eventually(t, func() bool {
		fc.Advance(10 * ms)
		select {
		case <-entered:
			return true
		default:
			return false
		}
	}, 2*time.Second, 2*time.Millisecond)

	// The old run is inside onChange: the reset must not overtake it.
	played := make(chan struct{})
	go func() {
		typist.Play(ctx, "XYZ", 100*ms, time.Second)
		close(played)
	}()
	select {
	case <-played:
		t.Fatal("Play returned while a reveal of the previous run was being delivered")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-played

	reveals := rec.all()
	require.NotEmpty(t, reveals)
	last := reveals[len(reveals)-1]
	assert.Empty(t, last.Text, "The reset is the last thing delivered")
	assert.Equal(t, engine.TypeIdle, last.State)
}
