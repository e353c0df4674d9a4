// Package interp implements the constrained cubic spline engine used to
// interpolate volatility surfaces: a shape-preserving first-derivative
// estimator, a local univariate spline, and a tensor-product bivariate
// extension. All functions are pure; the package holds no state.
package interp

import "fmt"

// Boundary describes where a point sits relative to the active interval's
// curve: its first point, its last point, or somewhere in between. The
// role is interval-relative, not an absolute index property.
type Boundary int

const (
	AtStart Boundary = iota
	AtInterior
	AtEnd
)

// Slope estimates the first derivative of the sampled curve (xs, ys) at
// index i. The estimate is constrained: near a local shape change it falls
// back to a simple finite difference instead of the blended form, which
// bounds spline overshoot around non-monotonic regions.
//
// xs must be strictly monotonic and len(xs) == len(ys) >= 2. Equal
// consecutive x or y values make a denominator vanish and return
// ErrDegenerateSpan.
func Slope(xs, ys []float64, i int, at Boundary) (float64, error) {
	n := len(xs)

	switch at {
	case AtStart:
		if n == 2 {
			return slopeOver(xs, ys, 0)
		}
		r0, err := invSlopeOver(xs, ys, 0)
		if err != nil {
			return 0, err
		}
		r1, err := invSlopeOver(xs, ys, 1)
		if err != nil {
			return 0, err
		}
		if r1-r0 < 0 {
			return slopeOver(xs, ys, 0)
		}
		return blend(xs, ys, 0, 1)

	case AtEnd:
		if n == 2 {
			return slopeOver(xs, ys, 0)
		}
		rPrev, err := invSlopeOver(xs, ys, n-3)
		if err != nil {
			return 0, err
		}
		rLast, err := invSlopeOver(xs, ys, n-2)
		if err != nil {
			return 0, err
		}
		if rLast-rPrev < 0 {
			return slopeOver(xs, ys, n-2)
		}
		return blend(xs, ys, n-2, n-3)

	case AtInterior:
		// A blended estimate needs one interval beyond [i, i+1]. Without
		// it, fall back to the backward difference.
		if i+1 >= n-1 {
			return slopeOver(xs, ys, i-1)
		}
		rHere, err := invSlopeOver(xs, ys, i)
		if err != nil {
			return 0, err
		}
		rNext, err := invSlopeOver(xs, ys, i+1)
		if err != nil {
			return 0, err
		}
		if rNext-rHere < 0 {
			return centered(xs, ys, i)
		}
		return blend(xs, ys, i, i+1)
	}

	return 0, fmt.Errorf("interp: unknown boundary %d", at)
}

// slopeOver returns the two-point slope of the interval starting at j.
func slopeOver(xs, ys []float64, j int) (float64, error) {
	dx := xs[j+1] - xs[j]
	if dx == 0 {
		return 0, fmt.Errorf("x[%d] == x[%d]: %w", j, j+1, ErrDegenerateSpan)
	}
	return (ys[j+1] - ys[j]) / dx, nil
}

// invSlopeOver returns the inverse slope dx/dy of the interval starting at
// j. The sign of a difference of inverse slopes is the branch condition
// that detects a local shape change.
func invSlopeOver(xs, ys []float64, j int) (float64, error) {
	dy := ys[j+1] - ys[j]
	if dy == 0 {
		return 0, fmt.Errorf("y[%d] == y[%d]: %w", j, j+1, ErrDegenerateSpan)
	}
	return (xs[j+1] - xs[j]) / dy, nil
}

// blend returns the shape-preserving form 3/2 * slope(j) - 1/2 * slope(k),
// pulling the estimate toward the interval's own slope.
func blend(xs, ys []float64, j, k int) (float64, error) {
	sj, err := slopeOver(xs, ys, j)
	if err != nil {
		return 0, err
	}
	sk, err := slopeOver(xs, ys, k)
	if err != nil {
		return 0, err
	}
	return 3*sj/2 - sk/2, nil
}

// centered returns the central difference across [i-1, i+1].
func centered(xs, ys []float64, i int) (float64, error) {
	dx := xs[i+1] - xs[i-1]
	if dx == 0 {
		return 0, fmt.Errorf("x[%d] == x[%d]: %w", i-1, i+1, ErrDegenerateSpan)
	}
	return (ys[i+1] - ys[i-1]) / dx, nil
}
