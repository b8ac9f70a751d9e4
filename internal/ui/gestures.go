package ui

import (
	"time"
)

type velocitySample struct {
	at  time.Time
	pos float64
}

// VelocityTracker estimates the release velocity of a drag from the
// positions reported during the last VelocityWindow
type VelocityTracker struct {
	now     func() time.Time
	window  time.Duration
	samples []velocitySample
}

// NewVelocityTracker creates a tracker driven by the wall clock
func NewVelocityTracker() *VelocityTracker {
	return &VelocityTracker{
		now:    time.Now,
		window: VelocityWindow,
	}
}

// Add records the pointer position along the tracked axis
func (vt *VelocityTracker) Add(pos float32) {
	vt.samples = append(vt.samples, velocitySample{at: vt.now(), pos: float64(pos)})
	if len(vt.samples) > MaxVelocitySamples {
		vt.samples = vt.samples[len(vt.samples)-MaxVelocitySamples:]
	}
}

// Velocity returns the least-squares slope of the recent samples in units
// per second. Fewer than two recent samples yield zero.
func (vt *VelocityTracker) Velocity() float64 {
	if len(vt.samples) < 2 {
		return 0
	}

	latest := vt.samples[len(vt.samples)-1].at
	var n, sumT, sumP, sumTT, sumTP float64
	for _, s := range vt.samples {
		age := latest.Sub(s.at)
		if age > vt.window {
			continue
		}
		t := -age.Seconds()
		n++
		sumT += t
		sumP += s.pos
		sumTT += t * t
		sumTP += t * s.pos
	}
	if n < 2 {
		return 0
	}

	denom := n*sumTT - sumT*sumT
	if denom == 0 {
		return 0
	}
	return (n*sumTP - sumT*sumP) / denom
}

// Reset forgets all samples
func (vt *VelocityTracker) Reset() {
	vt.samples = vt.samples[:0]
}
