package engine

import (
	"errors"
	"time"

	"github.com/tartampluch/go-vernissage/internal/config"
)

// Policy decides what happens when a gesture would move the carousel index past either end.
type Policy string

const (
	// PolicyClamp ignores inputs that would leave [0, count-1].
	PolicyClamp Policy = config.PolicyNameClamp
	// PolicyWrap moves the index modulo the item count.
	PolicyWrap Policy = config.PolicyNameWrap
)

// ScrollTuning controls the "fast then sticky" easing of the interpolation loop.
type ScrollTuning struct {
	MinFactor float64 `yaml:"min_factor"`
	MaxFactor float64 `yaml:"max_factor"`
	Distance  float64 `yaml:"distance"`
	Epsilon   float64 `yaml:"epsilon"`
}

// Tuning is the immutable set of timing and layout constants handed to every
// animated component at construction time.
type Tuning struct {
	CountdownInterval time.Duration `yaml:"countdown_interval"`

	TypeSpeed     time.Duration `yaml:"type_speed"`
	HeadlineDelay time.Duration `yaml:"headline_delay"`
	BioDelay      time.Duration `yaml:"bio_delay"`

	GestureCooldown time.Duration `yaml:"gesture_cooldown"`
	GesturePolicy   Policy        `yaml:"gesture_policy"`
	SwipeThreshold  float64       `yaml:"swipe_threshold"`

	Scroll            ScrollTuning `yaml:"scroll"`
	ItemSpacing       float64      `yaml:"item_spacing"`
	FadeDistance      float64      `yaml:"fade_distance"`
	EntranceOvershoot float64      `yaml:"entrance_overshoot"`
}

// DefaultScrollTuning returns the easing used by the exhibition carousel.
func DefaultScrollTuning() ScrollTuning {
	return ScrollTuning{
		MinFactor: config.DefaultScrollMinFactor,
		MaxFactor: config.DefaultScrollMaxFactor,
		Distance:  config.DefaultScrollDistance,
		Epsilon:   config.DefaultScrollEpsilon,
	}
}

// DefaultTuning returns the production animation constants.
func DefaultTuning() Tuning {
	return Tuning{
		CountdownInterval: config.DefaultCountdownInterval,
		TypeSpeed:         config.DefaultTypeSpeed,
		HeadlineDelay:     config.DefaultHeadlineDelay,
		BioDelay:          config.DefaultBioDelay,
		GestureCooldown:   config.DefaultGestureCooldown,
		GesturePolicy:     PolicyClamp,
		SwipeThreshold:    config.DefaultSwipeThreshold,
		Scroll:            DefaultScrollTuning(),
		ItemSpacing:       config.DefaultItemSpacing,
		FadeDistance:      config.DefaultFadeDistance,
		EntranceOvershoot: config.DefaultEntranceOvershoot,
	}
}

// Validate reports values that cannot be normalised silently.
func (t Tuning) Validate() error {
	switch t.GesturePolicy {
	case PolicyClamp, PolicyWrap:
		return nil
	default:
		return errors.New(config.ErrSitePolicy)
	}
}

// normalized replaces unusable scroll values with the defaults so that every
// frame strictly shrinks the remaining distance.
func (s ScrollTuning) normalized() ScrollTuning {
	def := DefaultScrollTuning()
	if s.MinFactor <= 0 || s.MaxFactor > 1 || s.MinFactor > s.MaxFactor {
		s.MinFactor = def.MinFactor
		s.MaxFactor = def.MaxFactor
	}
	if s.Distance <= 0 {
		s.Distance = def.Distance
	}
	if s.Epsilon <= 0 {
		s.Epsilon = def.Epsilon
	}
	return s
}
