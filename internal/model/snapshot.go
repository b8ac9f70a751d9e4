package model

// Snapshot is the read-only view of a swipeable state taken once per frame
type Snapshot struct {
	CurrentValue       StateLabel
	TargetValue        StateLabel
	Offset             float64
	IsAnimationRunning bool
}

// IsSettled returns true when the state is idle on its current anchor
func (s Snapshot) IsSettled(anchors *AnchorSet) bool {
	if s.IsAnimationRunning || s.CurrentValue != s.TargetValue {
		return false
	}
	offset, ok := anchors.Offset(s.CurrentValue)
	return ok && offset == s.Offset
}

// Fraction returns how far the offset has travelled from the "from" anchor
// toward the "to" anchor, clamped to [0, 1]. Hosts use it for scrim alpha.
func (s Snapshot) Fraction(anchors *AnchorSet, from, to StateLabel) float64 {
	a, okFrom := anchors.Offset(from)
	b, okTo := anchors.Offset(to)
	if !okFrom || !okTo || a == b {
		return 0
	}

	f := (s.Offset - a) / (b - a)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
