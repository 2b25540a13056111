package engine

import (
	"math"
	"sync"
	"time"
)

// Carousel composes the gesture controller (owner of the index) with the
// interpolator (owner of the scroll progress).
// Index changes flow one way: an accepted transition re-targets the progress.
type Carousel struct {
	tuning  Tuning
	gesture *Gesture
	scroll  *Interpolator

	mu      sync.Mutex
	dragged float64
}

// NewCarousel creates a carousel for count items positioned on item 0.
func NewCarousel(count int, tuning Tuning) *Carousel {
	return &Carousel{
		tuning:  tuning,
		gesture: NewGesture(count, tuning.GesturePolicy, tuning.GestureCooldown),
		scroll:  NewInterpolator(tuning.Scroll, 0),
	}
}

// Input feeds one directional event. It returns the index and whether it changed.
func (c *Carousel) Input(dir Direction, at time.Time) (int, bool) {
	index, ok := c.gesture.Input(dir, at)
	if ok {
		c.scroll.SetTarget(c.restingOffset(index))
	}
	return index, ok
}

// Select moves to index directly and re-targets the progress to it.
func (c *Carousel) Select(index int) (int, bool) {
	index, ok := c.gesture.Select(index)
	if ok {
		c.scroll.SetTarget(c.restingOffset(index))
	}
	return index, ok
}

// Wheel feeds a wheel delta.
func (c *Carousel) Wheel(dy float64, at time.Time) (int, bool) {
	return c.Input(WheelDirection(dy), at)
}

// Drag follows a pointer movement: the progress target tracks the finger.
func (c *Carousel) Drag(dx float64) {
	c.mu.Lock()
	c.dragged += dx
	c.mu.Unlock()
	c.scroll.Nudge(-dx)
}

// Release ends a drag. A swipe longer than the threshold becomes one gesture
// input; anything else, including a rejected input, snaps back to the index.
func (c *Carousel) Release(at time.Time) (int, bool) {
	c.mu.Lock()
	dx := c.dragged
	c.dragged = 0
	c.mu.Unlock()

	index, ok := c.Input(SwipeDirection(dx, c.tuning.SwipeThreshold), at)
	if !ok {
		c.scroll.SetTarget(c.restingOffset(index))
	}
	return index, ok
}

// Enter plays the entrance sequence: the strip slides in from the previous
// slot, runs past the current index and comes to rest EntranceOvershoot
// behind it. The next accepted input re-targets the index exactly.
func (c *Carousel) Enter() {
	rest := c.restingOffset(c.gesture.Index())
	c.scroll.Enter(rest-c.tuning.ItemSpacing, rest, c.tuning.EntranceOvershoot)
}

// Step advances the progress by one frame and returns it.
func (c *Carousel) Step() float64 {
	return c.scroll.Step()
}

// Settled reports whether the progress rests on its target.
func (c *Carousel) Settled() bool {
	return c.scroll.Settled()
}

// Progress returns the rendered scroll progress.
func (c *Carousel) Progress() float64 {
	return c.scroll.Current()
}

// Index returns the selected item.
func (c *Carousel) Index() int {
	return c.gesture.Index()
}

// Count returns the number of items.
func (c *Carousel) Count() int {
	return c.gesture.Count()
}

// Resize adapts the carousel to a new item list and jumps to the clamped index.
func (c *Carousel) Resize(count int) {
	index := c.gesture.Resize(count)
	c.scroll.Jump(c.restingOffset(index))
}

// Offset returns the horizontal display offset of item i relative to the viewport centre.
func (c *Carousel) Offset(i int) float64 {
	return c.restingOffset(i) - c.scroll.Current()
}

// Opacity fades an item linearly from 1 at the centre to 0 at FadeDistance.
// Offsets beyond that distance render hidden.
func (c *Carousel) Opacity(offset float64) float64 {
	if c.tuning.FadeDistance <= 0 {
		if offset == 0 {
			return 1
		}
		return 0
	}
	return math.Max(0, 1-math.Abs(offset)/c.tuning.FadeDistance)
}

func (c *Carousel) restingOffset(index int) float64 {
	return float64(index) * c.tuning.ItemSpacing
}
