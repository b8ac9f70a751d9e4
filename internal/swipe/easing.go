package swipe

import "math"

// Easing maps linear animation progress in [0, 1] to eased progress
type Easing func(fraction float64) float64

// Linear does not ease
func Linear(fraction float64) float64 {
	return fraction
}

// FastOutSlowIn is the standard material easing curve
var FastOutSlowIn = CubicBezier(0.4, 0.0, 0.2, 1.0)

// CubicBezier builds an easing from the control points of a cubic bezier
// whose end points are fixed at (0,0) and (1,1)
func CubicBezier(x1, y1, x2, y2 float64) Easing {
	return func(fraction float64) float64 {
		if fraction <= 0 {
			return 0
		}
		if fraction >= 1 {
			return 1
		}
		t := solveBezierX(fraction, x1, x2)
		return bezier(t, y1, y2)
	}
}

func bezier(t, p1, p2 float64) float64 {
	u := 1 - t
	return 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t
}

func bezierSlope(t, p1, p2 float64) float64 {
	u := 1 - t
	return 3*u*u*p1 + 6*u*t*(p2-p1) + 3*t*t*(1-p2)
}

// solveBezierX finds t such that bezier_x(t) == x
func solveBezierX(x, x1, x2 float64) float64 {
	const epsilon = 1e-7

	t := x
	for i := 0; i < 8; i++ {
		err := bezier(t, x1, x2) - x
		if math.Abs(err) < epsilon {
			return t
		}
		slope := bezierSlope(t, x1, x2)
		if math.Abs(slope) < 1e-6 {
			break
		}
		t -= err / slope
	}

	// Newton did not converge, fall back to bisection
	lo, hi := 0.0, 1.0
	t = x
	for i := 0; i < 64; i++ {
		v := bezier(t, x1, x2)
		if math.Abs(v-x) < epsilon {
			break
		}
		if v < x {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return t
}
