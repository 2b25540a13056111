package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/tartampluch/go-vernissage/internal/config"
)

// Snapshot is the remaining time until the launch, split for display.
// It has no identity: it is recomputed from (target - now) on every tick.
type Snapshot struct {
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
	Expired bool `json:"expired"`
}

// Remaining computes the countdown snapshot for target as seen at now.
// Sub-second remainders are floored. Once now reaches target every field is zero.
func Remaining(target, now time.Time) Snapshot {
	if !now.Before(target) {
		return Snapshot{Expired: true}
	}

	total := int64(target.Sub(now) / time.Second)
	return Snapshot{
		Days:    int(total / 86400),
		Hours:   int(total % 86400 / 3600),
		Minutes: int(total % 3600 / 60),
		Seconds: int(total % 60),
	}
}

// Display renders the snapshot as DD:HH:MM:SS.
func (s Snapshot) Display() string {
	return fmt.Sprintf(config.CountdownFormat, s.Days, s.Hours, s.Minutes, s.Seconds)
}

// Countdown publishes a Snapshot once per interval until it is stopped.
type Countdown struct {
	mu          sync.Mutex
	clock       Clock
	target      time.Time
	interval    time.Duration
	current     Snapshot
	subscribers []chan Snapshot
	cancel      context.CancelFunc
	done        chan struct{}
}

// NewCountdown creates a countdown towards target.
// A non-positive interval falls back to one second.
func NewCountdown(clock Clock, target time.Time, interval time.Duration) *Countdown {
	if interval <= 0 {
		interval = config.DefaultCountdownInterval
	}
	return &Countdown{
		clock:    clock,
		target:   target,
		interval: interval,
		current:  Remaining(target, clock.Now()),
	}
}

// Subscribe registers a new observer channel.
// Sends never block: a subscriber that does not keep up misses snapshots.
func (c *Countdown) Subscribe(buffer int) <-chan Snapshot {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)
	c.mu.Lock()
	c.subscribers = append(c.subscribers, ch)
	c.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a channel returned by Subscribe.
// Unknown channels are ignored, so a second call is harmless.
func (c *Countdown) Unsubscribe(sub <-chan Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, ch := range c.subscribers {
		if ch == sub {
			c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

// Current returns the last computed snapshot.
func (c *Countdown) Current() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Target returns the launch instant.
func (c *Countdown) Target() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Retarget moves the launch instant and publishes the new snapshot at once.
func (c *Countdown) Retarget(target time.Time) {
	c.mu.Lock()
	c.target = target
	c.mu.Unlock()
	c.tick(c.clock.Now())
}

// Start publishes the current snapshot and then one per interval.
// Calling Start on a running countdown is a no-op.
func (c *Countdown) Start(ctx context.Context) {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	ticker := c.clock.NewTicker(c.interval)
	done := c.done
	c.mu.Unlock()

	c.tick(c.clock.Now())
	go c.run(runCtx, ticker, done)
}

// Stop halts the ticker and closes every subscriber channel.
func (c *Countdown) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	done := c.done
	c.cancel = nil
	c.done = nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	c.mu.Lock()
	subscribers := c.subscribers
	c.subscribers = nil
	c.mu.Unlock()
	for _, ch := range subscribers {
		close(ch)
	}
}

func (c *Countdown) run(ctx context.Context, ticker clockwork.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			// The tick time from the channel ignores any clock offset.
			c.tick(c.clock.Now())
		}
	}
}

func (c *Countdown) tick(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	wasExpired := c.current.Expired
	c.current = Remaining(c.target, now)
	if c.current.Expired && !wasExpired {
		slog.Info(config.MsgCountdownDone,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyTarget, c.target)
	}

	for _, ch := range c.subscribers {
		select {
		case ch <- c.current:
		default:
		}
	}
}
