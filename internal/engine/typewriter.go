package engine

import (
	"context"
	"sync"
	"time"

	"github.com/tartampluch/go-vernissage/internal/config"
)

// TypeState is the lifecycle of a typewriter run.
type TypeState int

const (
	// TypeIdle waits out the initial delay with nothing revealed.
	TypeIdle TypeState = iota
	// TypeRevealing appends one character per interval.
	TypeRevealing
	// TypeComplete is terminal until the inputs change.
	TypeComplete
)

// String returns a log-friendly name.
func (s TypeState) String() string {
	switch s {
	case TypeIdle:
		return "idle"
	case TypeRevealing:
		return "revealing"
	case TypeComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Reveal is the externally visible state of a typewriter.
type Reveal struct {
	Text     string
	Revealed int
	State    TypeState
}

// Complete reports whether the whole text is visible.
func (r Reveal) Complete() bool {
	return r.State == TypeComplete
}

// Typewriter reveals a text one rune at a time.
// It never reads the clock: each scheduled timer firing is one counted step,
// so the number of appended runes cannot drift from the number of firings.
type Typewriter struct {
	text     []rune
	speed    time.Duration
	delay    time.Duration
	revealed int
	state    TypeState
	gen      uint64
}

// NewTypewriter creates an idle typewriter for text.
func NewTypewriter(text string, speed, delay time.Duration) *Typewriter {
	tw := &Typewriter{}
	tw.Reset(text, speed, delay)
	return tw
}

// Reset discards any progress and returns to Idle for the new inputs.
// The returned generation must accompany every Fire scheduled for this run.
func (tw *Typewriter) Reset(text string, speed, delay time.Duration) uint64 {
	if speed <= 0 {
		speed = config.DefaultTypeSpeed
	}
	if delay < 0 {
		delay = 0
	}
	tw.text = []rune(text)
	tw.speed = speed
	tw.delay = delay
	tw.revealed = 0
	tw.state = TypeIdle
	tw.gen++
	return tw.gen
}

// Generation identifies the current run.
func (tw *Typewriter) Generation() uint64 {
	return tw.gen
}

// NextDelay is how long to wait before the next Fire.
func (tw *Typewriter) NextDelay() time.Duration {
	if tw.state == TypeIdle {
		return tw.delay
	}
	return tw.speed
}

// Fire applies the transition scheduled for generation gen.
// It returns false when gen is stale or the run is complete, in which case
// nothing else must be scheduled.
func (tw *Typewriter) Fire(gen uint64) bool {
	if gen != tw.gen || tw.state == TypeComplete {
		return false
	}

	switch tw.state {
	case TypeIdle:
		tw.state = TypeRevealing
	case TypeRevealing:
		tw.revealed++
	}
	if tw.revealed >= len(tw.text) {
		tw.state = TypeComplete
		return false
	}
	return true
}

// Advance replays every transition that fits in elapsed, starting from the
// current state. It returns the time left over before the next transition.
func (tw *Typewriter) Advance(gen uint64, elapsed time.Duration) time.Duration {
	for gen == tw.gen && tw.state != TypeComplete {
		next := tw.NextDelay()
		if elapsed < next {
			return next - elapsed
		}
		elapsed -= next
		tw.Fire(gen)
	}
	return 0
}

// Snapshot returns the visible state.
func (tw *Typewriter) Snapshot() Reveal {
	return Reveal{
		Text:     string(tw.text[:tw.revealed]),
		Revealed: tw.revealed,
		State:    tw.state,
	}
}

// Typist drives a Typewriter from clock timers.
// Only one run is live at a time; starting a new one invalidates the old one.
type Typist struct {
	mu       sync.Mutex // guards machine and cancel
	emit     sync.Mutex // orders onChange calls
	clock    Clock
	machine  *Typewriter
	onChange func(Reveal)
	cancel   context.CancelFunc
}

// NewTypist creates a typist. onChange is called after every transition,
// from the typist goroutine, one call at a time. A transition that fires
// after its run was replaced or stopped is dropped. onChange must not call Play.
func NewTypist(clock Clock, onChange func(Reveal)) *Typist {
	return &Typist{
		clock:    clock,
		machine:  NewTypewriter("", 0, 0),
		onChange: onChange,
	}
}

// Play resets the typewriter to text and starts revealing it.
func (t *Typist) Play(ctx context.Context, text string, speed, delay time.Duration) {
	// Waits for an in-flight reveal of the old run, so the reset lands last.
	t.emit.Lock()
	defer t.emit.Unlock()

	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	gen := t.machine.Reset(text, speed, delay)
	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	snapshot := t.machine.Snapshot()
	t.mu.Unlock()

	t.notify(snapshot)
	go t.run(runCtx, gen)
}

// Stop cancels the pending timer. The revealed prefix stays as it is.
func (t *Typist) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	// Bumping the generation turns any in-flight firing into a no-op.
	t.machine.gen++
}

// Snapshot returns the visible state.
func (t *Typist) Snapshot() Reveal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.machine.Snapshot()
}

func (t *Typist) run(ctx context.Context, gen uint64) {
	for {
		t.mu.Lock()
		wait := t.machine.NextDelay()
		t.mu.Unlock()

		timer := t.clock.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.Chan():
		}

		more, ok := t.step(gen)
		if !ok || !more {
			return
		}
	}
}

// step fires one transition of run gen and delivers it. ok is false when
// the run was replaced or stopped before the transition.
func (t *Typist) step(gen uint64) (more, ok bool) {
	t.emit.Lock()
	defer t.emit.Unlock()

	t.mu.Lock()
	if gen != t.machine.Generation() {
		t.mu.Unlock()
		return false, false
	}
	more = t.machine.Fire(gen)
	snapshot := t.machine.Snapshot()
	t.mu.Unlock()

	t.notify(snapshot)
	return more, true
}

func (t *Typist) notify(snapshot Reveal) {
	if t.onChange != nil {
		t.onChange(snapshot)
	}
}
