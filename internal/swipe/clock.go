package swipe

import (
	"sync"
	"time"
)

// DefaultFrameInterval is roughly one frame at 60 fps
const DefaultFrameInterval = 16 * time.Millisecond

// FrameClock delivers the time elapsed since the previous frame. Each call
// to Frames opens an independent subscription; stop releases it and may be
// called more than once.
type FrameClock interface {
	Frames() (frames <-chan time.Duration, stop func())
}

// TickerClock drives frames from the wall clock
type TickerClock struct {
	Interval time.Duration
}

// NewTickerClock creates a wall clock with the given frame interval
func NewTickerClock(interval time.Duration) *TickerClock {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &TickerClock{Interval: interval}
}

// Frames implements FrameClock
func (c *TickerClock) Frames() (<-chan time.Duration, func()) {
	interval := c.Interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}

	frames := make(chan time.Duration)
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		last := time.Now()
		for {
			select {
			case now := <-ticker.C:
				dt := now.Sub(last)
				last = now
				select {
				case frames <- dt:
				case <-done:
					return
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return frames, func() { once.Do(func() { close(done) }) }
}

// ManualClock only advances when stepped. Step returns after every
// subscriber has consumed the frame, which makes animations deterministic in
// tests and in the gesture simulator.
type ManualClock struct {
	mu   sync.Mutex
	subs map[*manualSub]struct{}
}

type manualSub struct {
	frames chan time.Duration
	done   chan struct{}
}

// NewManualClock creates a clock with no subscribers
func NewManualClock() *ManualClock {
	return &ManualClock{subs: make(map[*manualSub]struct{})}
}

// Frames implements FrameClock
func (c *ManualClock) Frames() (<-chan time.Duration, func()) {
	sub := &manualSub{
		frames: make(chan time.Duration),
		done:   make(chan struct{}),
	}

	c.mu.Lock()
	c.subs[sub] = struct{}{}
	c.mu.Unlock()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, sub)
			c.mu.Unlock()
			close(sub.done)
		})
	}
	return sub.frames, stop
}

// Subscribers returns the number of open subscriptions
func (c *ManualClock) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Step delivers one frame of dt to every subscriber and returns how many
// received it
func (c *ManualClock) Step(dt time.Duration) int {
	c.mu.Lock()
	subs := make([]*manualSub, 0, len(c.subs))
	for sub := range c.subs {
		subs = append(subs, sub)
	}
	c.mu.Unlock()

	delivered := 0
	for _, sub := range subs {
		select {
		case sub.frames <- dt:
			delivered++
		case <-sub.done:
			continue
		}
		// A zero frame acts as a barrier: it is only taken once the
		// subscriber has finished handling dt.
		select {
		case sub.frames <- 0:
		case <-sub.done:
		}
	}
	return delivered
}

// Advance steps frames of size frame until total has elapsed
func (c *ManualClock) Advance(total, frame time.Duration) {
	if frame <= 0 {
		frame = DefaultFrameInterval
	}
	for total > 0 {
		dt := min(frame, total)
		c.Step(dt)
		total -= dt
	}
}
