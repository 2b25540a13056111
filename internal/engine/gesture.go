package engine

import (
	"sync"
	"time"
)

// Direction is the sign of a discrete navigation input.
type Direction int

const (
	// NoDirection carries no navigation intent.
	NoDirection Direction = 0
	// Backward moves to the previous item.
	Backward Direction = -1
	// Forward moves to the next item.
	Forward Direction = 1
)

// WheelDirection maps a wheel delta to a direction.
// A negative delta (wheel up) scrolls backward, a positive one forward.
func WheelDirection(dy float64) Direction {
	switch {
	case dy < 0:
		return Backward
	case dy > 0:
		return Forward
	default:
		return NoDirection
	}
}

// SwipeDirection maps a finished horizontal drag to a direction.
// Dragging the content to the left reveals the next item.
// Movements shorter than threshold carry no intent.
func SwipeDirection(dx, threshold float64) Direction {
	if threshold < 0 {
		threshold = -threshold
	}
	switch {
	case dx <= -threshold && dx != 0:
		return Forward
	case dx >= threshold && dx != 0:
		return Backward
	default:
		return NoDirection
	}
}

// KeyDirection maps a key name to a direction.
// Names follow fyne.KeyName values ("Left", "Right", "Prior", "Next"...).
func KeyDirection(name string) Direction {
	switch name {
	case "Left", "Up", "Prior", "BackSpace":
		return Backward
	case "Right", "Down", "Next", "Space":
		return Forward
	default:
		return NoDirection
	}
}

// Gesture owns the carousel index and rate-limits navigation inputs.
// The cooldown gate is a pure function of the timestamps handed to Input,
// measured from the last accepted transition only.
type Gesture struct {
	mu           sync.Mutex
	count        int
	index        int
	policy       Policy
	cooldown     time.Duration
	lastAccepted time.Time
	accepted     bool
}

// NewGesture creates a controller for count items, starting at index 0.
// Unknown policies behave like PolicyClamp.
func NewGesture(count int, policy Policy, cooldown time.Duration) *Gesture {
	if count < 0 {
		count = 0
	}
	if policy != PolicyWrap {
		policy = PolicyClamp
	}
	if cooldown < 0 {
		cooldown = 0
	}
	return &Gesture{count: count, policy: policy, cooldown: cooldown}
}

// Input applies one directional event observed at the given instant.
// It returns the resulting index and whether the event changed it.
func (g *Gesture) Input(dir Direction, at time.Time) (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if dir == NoDirection || g.count == 0 {
		return g.index, false
	}
	if g.accepted && at.Sub(g.lastAccepted) < g.cooldown {
		return g.index, false
	}

	next, ok := g.move(dir)
	if !ok {
		return g.index, false
	}

	g.index = next
	g.lastAccepted = at
	g.accepted = true
	return g.index, true
}

// Select jumps straight to index, as a pointer choice does. It bypasses the
// cooldown and does not start one. Out-of-range indices are rejected.
func (g *Gesture) Select(index int) (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if index < 0 || index >= g.count || index == g.index {
		return g.index, false
	}
	g.index = index
	return g.index, true
}

// move computes the index one step in dir. The second result is false when
// the step is a no-op under the active policy.
func (g *Gesture) move(dir Direction) (int, bool) {
	next := g.index + int(dir)
	if g.policy == PolicyWrap {
		next = ((next % g.count) + g.count) % g.count
	} else if next < 0 || next >= g.count {
		return g.index, false
	}
	return next, next != g.index
}

// Index returns the current index.
func (g *Gesture) Index() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.index
}

// Count returns the number of items.
func (g *Gesture) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count
}

// Resize changes the item count, keeping the index in range.
// The cooldown state is left untouched.
func (g *Gesture) Resize(count int) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	if count < 0 {
		count = 0
	}
	g.count = count
	switch {
	case count == 0:
		g.index = 0
	case g.index >= count:
		g.index = count - 1
	}
	return g.index
}
