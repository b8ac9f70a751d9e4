package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Anchor errors returned by NewAnchorSet and NewDrawerAnchors
var (
	ErrTooFewAnchors       = errors.New("anchor set needs at least two anchors")
	ErrDuplicateLabel      = errors.New("duplicate anchor label")
	ErrNonMonotonicAnchors = errors.New("anchor offsets must be distinct")
	ErrInvalidOffset       = errors.New("anchor offset must be finite")
	ErrInvalidTravel       = errors.New("travel distance must be positive and finite")
)

// Anchor binds a state label to a fixed offset in pixels along one axis
type Anchor struct {
	Label  StateLabel
	Offset float64
}

// AnchorSet is an immutable list of anchors ordered by ascending offset
type AnchorSet struct {
	anchors []Anchor
}

// NewAnchorSet validates and sorts the given anchors
func NewAnchorSet(anchors ...Anchor) (*AnchorSet, error) {
	if len(anchors) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewAnchors, len(anchors))
	}

	sorted := make([]Anchor, len(anchors))
	copy(sorted, anchors)

	seen := make(map[StateLabel]struct{}, len(sorted))
	for _, a := range sorted {
		if a.Label.IsZero() {
			return nil, ErrEmptyLabel
		}
		if math.IsNaN(a.Offset) || math.IsInf(a.Offset, 0) {
			return nil, fmt.Errorf("%w: %s=%v", ErrInvalidOffset, a.Label, a.Offset)
		}
		if _, dup := seen[a.Label]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateLabel, a.Label)
		}
		seen[a.Label] = struct{}{}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Offset == sorted[i-1].Offset {
			return nil, fmt.Errorf("%w: %s and %s share offset %v",
				ErrNonMonotonicAnchors, sorted[i-1].Label, sorted[i].Label, sorted[i].Offset)
		}
	}

	return &AnchorSet{anchors: sorted}, nil
}

// NewDrawerAnchors builds the stock two-state set: Closed at the origin and
// Open one travel distance in the negative direction.
func NewDrawerAnchors(travel float64) (*AnchorSet, error) {
	if !(travel > 0) || math.IsInf(travel, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTravel, travel)
	}
	return NewAnchorSet(
		Anchor{Label: StateClosed, Offset: 0},
		Anchor{Label: StateOpen, Offset: -travel},
	)
}

// Len returns the number of anchors
func (as *AnchorSet) Len() int {
	return len(as.anchors)
}

// Anchors returns a copy of the anchors in ascending offset order
func (as *AnchorSet) Anchors() []Anchor {
	out := make([]Anchor, len(as.anchors))
	copy(out, as.anchors)
	return out
}

// Labels returns the labels in ascending offset order
func (as *AnchorSet) Labels() []StateLabel {
	out := make([]StateLabel, len(as.anchors))
	for i, a := range as.anchors {
		out[i] = a.Label
	}
	return out
}

// Offset returns the anchor offset for a label
func (as *AnchorSet) Offset(label StateLabel) (float64, bool) {
	for _, a := range as.anchors {
		if a.Label == label {
			return a.Offset, true
		}
	}
	return 0, false
}

// Contains reports whether the label is part of the set
func (as *AnchorSet) Contains(label StateLabel) bool {
	_, ok := as.Offset(label)
	return ok
}

// LabelAt returns the label whose anchor sits exactly at offset
func (as *AnchorSet) LabelAt(offset float64) (StateLabel, bool) {
	for _, a := range as.anchors {
		if a.Offset == offset {
			return a.Label, true
		}
	}
	return "", false
}

// Min returns the smallest anchor offset
func (as *AnchorSet) Min() float64 {
	return as.anchors[0].Offset
}

// Max returns the largest anchor offset
func (as *AnchorSet) Max() float64 {
	return as.anchors[len(as.anchors)-1].Offset
}

// Travel returns the distance between the outermost anchors
func (as *AnchorSet) Travel() float64 {
	return as.Max() - as.Min()
}

// Clamp limits offset to [Min, Max]. NaN clamps to Min.
func (as *AnchorSet) Clamp(offset float64) float64 {
	if math.IsNaN(offset) {
		return as.Min()
	}
	return math.Max(as.Min(), math.Min(as.Max(), offset))
}

// Bounds returns the nearest anchors at or below and at or above offset.
// Both are the same anchor when offset sits on an anchor or outside the range.
// A NaN offset is treated as Min.
func (as *AnchorSet) Bounds(offset float64) (lower, upper Anchor) {
	if math.IsNaN(offset) || offset <= as.Min() {
		return as.anchors[0], as.anchors[0]
	}
	last := as.anchors[len(as.anchors)-1]
	if offset >= last.Offset {
		return last, last
	}

	i := sort.Search(len(as.anchors), func(i int) bool {
		return as.anchors[i].Offset >= offset
	})
	if as.anchors[i].Offset == offset {
		return as.anchors[i], as.anchors[i]
	}
	return as.anchors[i-1], as.anchors[i]
}

// Nearest returns the anchor closest to offset; ties go to the lower anchor
func (as *AnchorSet) Nearest(offset float64) Anchor {
	lower, upper := as.Bounds(offset)
	if offset-lower.Offset <= upper.Offset-offset {
		return lower
	}
	return upper
}
