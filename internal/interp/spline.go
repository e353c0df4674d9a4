package interp

import "fmt"

// Eval interpolates the sampled curve (xs, ys) at q with a local
// constrained cubic spline. xs must be strictly increasing; ys runs
// parallel to it.
//
// With exactly two points the curve is a clamped line. With three or more,
// a query outside [xs[0], xs[n-1]] clamps to the boundary level, and a
// query inside is evaluated on a cubic fitted to its bracketing interval
// alone. Each interval is solved independently, trading global smoothness
// for locality and a constant per-interval cost.
func Eval(xs, ys []float64, q float64) (float64, error) {
	n := len(xs)
	if len(ys) != n {
		return 0, fmt.Errorf("len(x)=%d len(y)=%d: %w", n, len(ys), ErrShapeMismatch)
	}
	if n < 2 {
		return 0, fmt.Errorf("curve has %d points: %w", n, ErrTooFewPoints)
	}

	if q <= xs[0] {
		return ys[0], nil
	}
	if q >= xs[n-1] {
		return ys[n-1], nil
	}

	if n == 2 {
		s, err := slopeOver(xs, ys, 0)
		if err != nil {
			return 0, err
		}
		return ys[0] + s*(q-xs[0]), nil
	}

	// Bracketing interval: first knot at or past q closes it.
	hi := 1
	for hi < n-1 && xs[hi] < q {
		hi++
	}
	lo := hi - 1

	// The estimator classifies each interval endpoint by whether it is
	// also the curve's first or last point.
	atLo := AtInterior
	if lo == 0 {
		atLo = AtStart
	}
	atHi := AtInterior
	if hi == n-1 {
		atHi = AtEnd
	}

	m0, err := Slope(xs, ys, lo, atLo)
	if err != nil {
		return 0, fmt.Errorf("slope at x[%d]: %w", lo, err)
	}
	m1, err := Slope(xs, ys, hi, atHi)
	if err != nil {
		return 0, fmt.Errorf("slope at x[%d]: %w", hi, err)
	}

	x0, x1 := xs[lo], xs[hi]
	y0, y1 := ys[lo], ys[hi]
	h := x1 - x0
	if h == 0 {
		return 0, fmt.Errorf("x[%d] == x[%d]: %w", lo, hi, ErrDegenerateSpan)
	}

	// Second-derivative endpoints of the local cubic, then the closed-form
	// coefficients of a + b*x + c*x^2 + d*x^3 matching y0, y1 and both
	// second derivatives.
	dy := y1 - y0
	f20 := 2*(m1-m0)/h + 6*dy/(h*h)
	f21 := 2*(m1+m0)/h + 6*dy/(h*h)

	d := (f21 - f20) / (6 * h)
	c := (x1*f20 - x0*f21) / (2 * h)
	b := (dy - c*(x1*x1-x0*x0) - d*(x1*x1*x1-x0*x0*x0)) / h
	a := y0 - b*x0 - c*x0*x0 - d*x0*x0*x0

	return a + b*q + c*q*q + d*q*q*q, nil
}
