// Package clock implements the game timer: remaining time per colour with a
// Fischer increment, driven either by a ticker goroutine or by Elapse.
package clock

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/lgbarn/chessrules-go/internal/chess"
	"github.com/lgbarn/chessrules-go/internal/logging"
)

// DefaultTickInterval is how often a running clock reports.
const DefaultTickInterval = time.Second

// UpdateFunc receives the remaining whole seconds (rounded up) of the colour
// whose clock is running. It is never called with the clock's lock held.
type UpdateFunc func(colour chess.Colour, seconds int)

// Clock tracks both players' time. It satisfies engine.Timer and
// engine.Resumer.
type Clock struct {
	mu        sync.Mutex
	remaining [2]time.Duration
	increment time.Duration
	active    chess.Colour
	running   bool
	cancel    context.CancelFunc

	tick     time.Duration
	onUpdate UpdateFunc
}

// Option configures a Clock.
type Option func(*Clock)

// WithTickInterval sets the ticker period. Zero disables the ticker, leaving
// Elapse as the only way to consume time.
func WithTickInterval(d time.Duration) Option {
	return func(c *Clock) {
		c.tick = d
	}
}

// New creates a stopped clock that reports through onUpdate.
func New(onUpdate UpdateFunc, opts ...Option) *Clock {
	c := &Clock{
		tick:     DefaultTickInterval,
		onUpdate: onUpdate,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init resets both clocks and starts timing the starting colour.
func (c *Clock) Init(startMinutes, incrementSeconds int, starting chess.Colour) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	start := time.Duration(startMinutes) * time.Minute
	c.remaining = [2]time.Duration{start, start}
	c.increment = time.Duration(incrementSeconds) * time.Second
	c.active = starting
	c.running = true
	c.startTicker()
	logging.Debugf("clock: init %v +%v, %s to move", start, c.increment, starting)
}

// Resume times colour from its current remainder, restarting a stopped
// clock. No increment is credited.
func (c *Clock) Resume(colour chess.Colour) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = colour
	if c.running {
		return
	}
	c.running = true
	c.startTicker()
	logging.Debugf("clock: resumed, %s to move", colour)
}

// startTicker must be called with c.mu held.
func (c *Clock) startTicker() {
	if c.tick <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.run(ctx, c.tick)
}

// SwitchActivePlayer credits the increment to the player who just moved and
// starts the opponent's clock.
func (c *Clock) SwitchActivePlayer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.remaining[c.active] += c.increment
	c.active = c.active.Opposite()
}

// Stop halts the clock. The ticker goroutine is cancelled but not waited
// for, so Stop may be called while a caller's lock blocks the callback.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Elapse consumes d from the running colour and reports the result.
func (c *Clock) Elapse(d time.Duration) {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	colour := c.active
	c.remaining[colour] -= d
	seconds := wholeSeconds(c.remaining[colour])
	c.mu.Unlock()

	if c.onUpdate != nil {
		c.onUpdate(colour, seconds)
	}
}

// Remaining returns the time left for colour.
func (c *Clock) Remaining(colour chess.Colour) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining[colour]
}

// Active returns the colour whose clock runs.
func (c *Clock) Active() chess.Colour {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Running reports whether the clock has been started and not stopped.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Clock) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Elapse(interval)
		}
	}
}

// wholeSeconds rounds up, so a clock only reads zero once time is gone.
func wholeSeconds(d time.Duration) int {
	if d <= 0 {
		return int(math.Floor(d.Seconds()))
	}
	return int(math.Ceil(d.Seconds()))
}
