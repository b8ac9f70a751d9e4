package swipe

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ytget/anchorswipe/internal/model"
)

// Machine defaults
const (
	DefaultVelocityThreshold = 400.0 // dp per second
	DefaultAnimationDuration = 256 * time.Millisecond
)

// ErrUnknownLabel is returned when a transition names a label that is not
// part of the anchor set
var ErrUnknownLabel = errors.New("label is not an anchor")

// Config holds the tuning of a Machine
type Config struct {
	Thresholds        ThresholdsFunc
	VelocityThreshold float64 // px per second
	Duration          time.Duration
	Easing            Easing
}

// DefaultConfig returns the stock tuning at density 1
func DefaultConfig() Config {
	return Config{
		Thresholds:        Fractional(DefaultPositionalThreshold),
		VelocityThreshold: DefaultVelocityThreshold,
		Duration:          DefaultAnimationDuration,
		Easing:            FastOutSlowIn,
	}
}

type tween struct {
	start    float64
	end      float64
	elapsed  time.Duration
	duration time.Duration
	easing   Easing
}

// Machine is the anchored swipe state. It is not safe for concurrent use;
// State provides the synchronized wrapper.
type Machine struct {
	Anchors            *model.AnchorSet
	CurrentValue       model.StateLabel
	TargetValue        model.StateLabel
	Offset             float64
	IsAnimationRunning bool

	Config Config

	dragging bool
	tween    *tween
}

// NewMachine creates a machine settled on initial
func NewMachine(initial model.StateLabel, anchors *model.AnchorSet, cfg Config) (*Machine, error) {
	if anchors == nil {
		return nil, model.ErrTooFewAnchors
	}
	offset, ok := anchors.Offset(initial)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLabel, initial)
	}
	if cfg.Thresholds == nil {
		cfg.Thresholds = Fractional(DefaultPositionalThreshold)
	}
	if cfg.Easing == nil {
		cfg.Easing = FastOutSlowIn
	}

	return &Machine{
		Anchors:      anchors,
		CurrentValue: initial,
		TargetValue:  initial,
		Offset:       offset,
		Config:       cfg,
	}, nil
}

// Snapshot returns the current values
func (m *Machine) Snapshot() model.Snapshot {
	return model.Snapshot{
		CurrentValue:       m.CurrentValue,
		TargetValue:        m.TargetValue,
		Offset:             m.Offset,
		IsAnimationRunning: m.IsAnimationRunning,
	}
}

// IsDragging returns true between the first drag delta and the release
func (m *Machine) IsDragging() bool {
	return m.dragging
}

// StartDrag stops any tween where it is and enters drag mode
func (m *Machine) StartDrag() {
	m.Interrupt()
	m.dragging = true
}

// ApplyDrag moves the offset by delta, clamped to the anchor range, and
// returns the part of delta that was consumed. Non-finite deltas are ignored.
func (m *Machine) ApplyDrag(delta float64) float64 {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return 0
	}
	if !m.dragging {
		m.StartDrag()
	}

	old := m.Offset
	m.Offset = m.Anchors.Clamp(m.Offset + delta)
	m.TargetValue = m.decide(0)
	return m.Offset - old
}

// Release ends the drag and returns the anchor the gesture should settle on.
// Nothing is committed until ConfirmAndCommit and the tween complete.
func (m *Machine) Release(velocity float64) model.StateLabel {
	m.dragging = false
	target := m.decide(velocity)
	m.TargetValue = target
	return target
}

// decide applies the velocity override and the positional threshold
func (m *Machine) decide(velocity float64) model.StateLabel {
	lower, upper := m.Anchors.Bounds(m.Offset)
	if lower.Label == upper.Label {
		return lower.Label
	}

	if math.Abs(velocity) > m.Config.VelocityThreshold {
		if velocity > 0 {
			return upper.Label
		}
		return lower.Label
	}

	// "from" is the bound on the side of the settled anchor
	from, to := upper, lower
	if current, ok := m.Anchors.Offset(m.CurrentValue); ok && current <= m.Offset {
		from, to = lower, upper
	}

	threshold := m.Config.Thresholds(from, to).Compute(from.Offset, to.Offset)
	if to.Offset > from.Offset {
		if m.Offset >= threshold {
			return to.Label
		}
		return from.Label
	}
	if m.Offset <= threshold {
		return to.Label
	}
	return from.Label
}

// ConfirmAndCommit runs the guard for a move to target. A veto redirects
// the target to CurrentValue. Moving to CurrentValue never asks the guard.
func (m *Machine) ConfirmAndCommit(target model.StateLabel, confirm func(model.StateLabel) bool) (model.StateLabel, bool) {
	if target == m.CurrentValue || confirm == nil || confirm(target) {
		m.TargetValue = target
		return target, false
	}
	m.TargetValue = m.CurrentValue
	return m.CurrentValue, true
}

// StartTween begins animating toward target. It returns false when no
// frames are needed because the offset is already on the anchor or the
// animation duration is zero; the machine is settled in that case.
func (m *Machine) StartTween(target model.StateLabel) (bool, error) {
	end, ok := m.Anchors.Offset(target)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownLabel, target)
	}

	m.dragging = false
	m.tween = nil
	m.TargetValue = target

	if m.Offset == end || m.Config.Duration <= 0 {
		m.settle(end)
		return false, nil
	}

	m.tween = &tween{
		start:    m.Offset,
		end:      end,
		duration: m.Config.Duration,
		easing:   m.Config.Easing,
	}
	m.IsAnimationRunning = true
	return true, nil
}

// Tick advances the tween by dt and reports whether the machine is idle
func (m *Machine) Tick(dt time.Duration) bool {
	tw := m.tween
	if tw == nil {
		return true
	}

	tw.elapsed += dt
	if tw.elapsed >= tw.duration {
		m.settle(tw.end)
		return true
	}

	progress := tw.easing(float64(tw.elapsed) / float64(tw.duration))
	m.Offset = tw.start + (tw.end-tw.start)*progress
	return false
}

func (m *Machine) settle(end float64) {
	m.tween = nil
	m.Offset = end
	m.CurrentValue = m.TargetValue
	m.IsAnimationRunning = false
}

// Interrupt stops a running tween where it is. If the offset happens to rest
// on the already-confirmed target anchor, that target is committed.
func (m *Machine) Interrupt() {
	if m.tween != nil {
		m.tween = nil
		m.IsAnimationRunning = false
		if label, ok := m.Anchors.LabelAt(m.Offset); ok && label == m.TargetValue {
			m.CurrentValue = label
		}
	}
	m.dragging = false
	m.TargetValue = m.CurrentValue
}

// Snap jumps straight to target without animating
func (m *Machine) Snap(target model.StateLabel) error {
	end, ok := m.Anchors.Offset(target)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLabel, target)
	}
	m.dragging = false
	m.TargetValue = target
	m.settle(end)
	return nil
}

// Reanchor swaps in a new anchor set, typically after the host was resized.
// CurrentValue is kept when the new set has it, otherwise the anchor nearest
// to the clamped offset is used. The offset is placed on that anchor.
func (m *Machine) Reanchor(anchors *model.AnchorSet) {
	m.tween = nil
	m.dragging = false
	m.IsAnimationRunning = false
	m.Anchors = anchors

	if !anchors.Contains(m.CurrentValue) {
		m.CurrentValue = anchors.Nearest(anchors.Clamp(m.Offset)).Label
	}
	m.TargetValue = m.CurrentValue
	m.Offset, _ = anchors.Offset(m.CurrentValue)
}
