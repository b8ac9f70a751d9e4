package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestTracker() (*VelocityTracker, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	vt := NewVelocityTracker()
	vt.now = clock.Now
	return vt, clock
}

func TestVelocityTracker_Empty(t *testing.T) {
	vt, _ := newTestTracker()
	assert.Zero(t, vt.Velocity())

	vt.Add(10)
	assert.Zero(t, vt.Velocity(), "a single sample has no slope")
}

func TestVelocityTracker_ConstantSpeed(t *testing.T) {
	vt, clock := newTestTracker()
	for i := 0; i < 5; i++ {
		vt.Add(float32(i * 10))
		clock.advance(10 * time.Millisecond)
	}
	assert.InDelta(t, 1000.0, vt.Velocity(), 1e-6)
}

func TestVelocityTracker_Negative(t *testing.T) {
	vt, clock := newTestTracker()
	vt.Add(300)
	clock.advance(20 * time.Millisecond)
	vt.Add(290)
	clock.advance(20 * time.Millisecond)
	vt.Add(280)
	assert.InDelta(t, -500.0, vt.Velocity(), 1e-6)
}

func TestVelocityTracker_IgnoresOldSamples(t *testing.T) {
	vt, clock := newTestTracker()
	vt.Add(0)
	clock.advance(500 * time.Millisecond)
	vt.Add(500)

	// the first sample is outside the window
	assert.Zero(t, vt.Velocity())

	clock.advance(50 * time.Millisecond)
	vt.Add(550)
	assert.InDelta(t, 1000.0, vt.Velocity(), 1e-6)
}

func TestVelocityTracker_SameInstant(t *testing.T) {
	vt, _ := newTestTracker()
	vt.Add(0)
	vt.Add(40)
	assert.Zero(t, vt.Velocity())
}

func TestVelocityTracker_Reset(t *testing.T) {
	vt, clock := newTestTracker()
	vt.Add(0)
	clock.advance(10 * time.Millisecond)
	vt.Add(10)
	vt.Reset()
	assert.Zero(t, vt.Velocity())
}

func TestVelocityTracker_KeepsRecentSamples(t *testing.T) {
	vt, clock := newTestTracker()
	for i := 0; i < MaxVelocitySamples*2; i++ {
		vt.Add(float32(i))
		clock.advance(time.Millisecond)
	}
	assert.Len(t, vt.samples, MaxVelocitySamples)
	assert.InDelta(t, 1000.0, vt.Velocity(), 1e-6)
}
