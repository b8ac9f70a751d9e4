package swipe

import "github.com/ytget/anchorswipe/internal/model"

// Threshold computes the offset past which a released drag settles on the
// "to" anchor instead of springing back to "from"
type Threshold interface {
	Compute(from, to float64) float64
}

// ThresholdsFunc chooses the threshold between a pair of anchors
type ThresholdsFunc func(from, to model.Anchor) Threshold

// FractionalThreshold places the threshold at a fraction of the way from
// "from" to "to"
type FractionalThreshold float64

// Compute implements Threshold
func (f FractionalThreshold) Compute(from, to float64) float64 {
	return from + (to-from)*float64(f)
}

// FixedThreshold places the threshold a fixed distance away from "from"
type FixedThreshold float64

// Compute implements Threshold
func (f FixedThreshold) Compute(from, to float64) float64 {
	if to < from {
		return from - float64(f)
	}
	return from + float64(f)
}

// DefaultPositionalThreshold is the tie line between two anchors
const DefaultPositionalThreshold = 0.5

// Fractional returns a ThresholdsFunc using the same fraction for every pair
func Fractional(fraction float64) ThresholdsFunc {
	return func(model.Anchor, model.Anchor) Threshold {
		return FractionalThreshold(fraction)
	}
}

// Fixed returns a ThresholdsFunc using the same pixel distance for every pair
func Fixed(px float64) ThresholdsFunc {
	return func(model.Anchor, model.Anchor) Threshold {
		return FixedThreshold(px)
	}
}
