package mosaic

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// AutoplayInterval is how often the strip advances on its own.
const AutoplayInterval = 4 * time.Second

// Counter is an index that wraps around n positions.
type Counter struct {
	mu sync.Mutex
	i  int
	n  int
}

// NewCounter returns a counter over n positions starting at 0.
func NewCounter(n int) *Counter {
	return &Counter{n: n}
}

// Advance moves one step forward and returns the new index.
func (c *Counter) Advance() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.n > 0 {
		c.i = (c.i + 1) % c.n
	}
	return c.i
}

// Set jumps to i, wrapped into range.
func (c *Counter) Set(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.n > 0 {
		c.i = ((i % c.n) + c.n) % c.n
	}
}

// Value returns the current index.
func (c *Counter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.i
}

// Label renders the position as "03 / 07".
func (c *Counter) Label() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos := 0
	if c.n > 0 {
		pos = c.i + 1
	}
	return fmt.Sprintf("%02d / %02d", pos, c.n)
}

// Autoplay advances a carousel on every frame tick unless paused. Ticks
// that arrive while paused are dropped, so resuming never catches up.
type Autoplay struct {
	interval time.Duration
	step     func()
	paused   atomic.Bool
}

// NewAutoplay calls step once per interval while not paused.
func NewAutoplay(interval time.Duration, step func()) *Autoplay {
	return &Autoplay{interval: interval, step: step}
}

// Pause stops advancing from the next tick on.
func (a *Autoplay) Pause() { a.paused.Store(true) }

// Resume re-enables advancing.
func (a *Autoplay) Resume() { a.paused.Store(false) }

// Paused reports the pause flag.
func (a *Autoplay) Paused() bool { return a.paused.Load() }

// Run ticks until ctx is cancelled.
func (a *Autoplay) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if a.paused.Load() {
				continue
			}
			a.step()
		}
	}
}
