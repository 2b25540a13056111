package engine

import (
	"math"
	"sync"
)

// Interpolator eases a current value toward a mutable target, one frame at a time.
// Large distances close quickly and small residuals close slowly ("fast then sticky").
type Interpolator struct {
	mu      sync.Mutex
	tuning  ScrollTuning
	current float64
	target  float64

	// Entrance choreography: a single pending target reassignment.
	entering  bool
	rest      float64
	overshoot float64
}

// NewInterpolator creates an interpolator resting at start.
func NewInterpolator(tuning ScrollTuning, start float64) *Interpolator {
	return &Interpolator{
		tuning:  tuning.normalized(),
		current: start,
		target:  start,
	}
}

// Factor returns the fraction of diff covered by one frame.
func (s ScrollTuning) Factor(diff float64) float64 {
	t := math.Min(math.Abs(diff)/s.Distance, 1)
	return s.MinFactor + t*(s.MaxFactor-s.MinFactor)
}

// Step advances one frame and returns the new current value.
func (ip *Interpolator) Step() float64 {
	ip.mu.Lock()
	defer ip.mu.Unlock()

	// Once the value has crossed the resting point it turns back and
	// settles the same distance behind it.
	if ip.entering && (ip.current-ip.rest)*math.Copysign(1, ip.overshoot) >= 0 {
		ip.target = ip.rest - ip.overshoot
		ip.entering = false
	}

	diff := ip.target - ip.current
	if math.Abs(diff) < ip.tuning.Epsilon {
		ip.current = ip.target
		return ip.current
	}

	ip.current += diff * ip.tuning.Factor(diff)
	if math.Abs(ip.target-ip.current) < ip.tuning.Epsilon && !ip.entering {
		ip.current = ip.target
	}
	return ip.current
}

// SetTarget replaces the target. The next Step reads it.
func (ip *Interpolator) SetTarget(v float64) {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	ip.entering = false
	ip.target = v
}

// Nudge shifts the target by a raw drag or wheel delta.
func (ip *Interpolator) Nudge(delta float64) {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	ip.entering = false
	ip.target += delta
}

// Jump moves both current and target to v without easing.
func (ip *Interpolator) Jump(v float64) {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	ip.entering = false
	ip.current = v
	ip.target = v
}

// Enter starts the entrance sequence: the value travels from `from` toward
// rest+overshoot, and the first frame that finds it at or past rest
// retargets it to rest-overshoot. The overshoot is oriented away from `from`.
func (ip *Interpolator) Enter(from, rest, overshoot float64) {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	overshoot = math.Abs(overshoot)
	if from > rest {
		overshoot = -overshoot
	}
	ip.current = from
	ip.target = rest + overshoot
	ip.rest = rest
	ip.overshoot = overshoot
	ip.entering = true
}

// Current returns the rendered value.
func (ip *Interpolator) Current() float64 {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	return ip.current
}

// Target returns the value being approached.
func (ip *Interpolator) Target() float64 {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	return ip.target
}

// Settled reports whether current equals target and no entrance is pending.
func (ip *Interpolator) Settled() bool {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	return !ip.entering && ip.current == ip.target
}
