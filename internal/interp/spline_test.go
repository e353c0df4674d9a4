package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalTwoPointsLinear(t *testing.T) {
	xs := []float64{1, 3}
	ys := []float64{2, 6}

	tests := []struct {
		q    float64
		want float64
	}{
		{1, 2},
		{3, 6},
		{2, 4},   // midpoint
		{0, 2},   // clamped left
		{5, 6},   // clamped right
		{2.5, 5}, // interior
	}
	for _, tt := range tests {
		got, err := Eval(xs, ys, tt.q)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-12, "q=%v", tt.q)
	}
}

func TestEvalClampsOutsideBounds(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{1, 2, 4, 8}

	lo, err := Eval(xs, ys, -5)
	require.NoError(t, err)
	assert.Equal(t, ys[0], lo)

	hi, err := Eval(xs, ys, 99)
	require.NoError(t, err)
	assert.Equal(t, ys[len(ys)-1], hi)
}

func TestEvalExactAtKnots(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}
	ys := []float64{1, 2, 4, 8, 16}

	for k := range xs {
		got, err := Eval(xs, ys, xs[k])
		require.NoError(t, err)
		assert.InDelta(t, ys[k], got, 1e-9, "knot %d", k)
	}
}

func TestEvalBetweenKnots(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{1, 2, 4, 8}

	// Hand-derived from the endpoint-derivative construction. At q=1.5
	// the bracketing interval is [1,2]: m0 = 1.5 (centered difference,
	// shape-change branch), m1 = 2.0 (backward fallback), giving
	// f''(x0) = 13, f''(x1) = 19 and the cubic 13 - 15.5x + 3.5x² + x³,
	// which is exactly 1.0 at the query. At q=2.5 the interval is [2,3]:
	// m0 = 2.0, m1 = 4.0, and the cubic evaluates to 2.0.
	tests := []struct {
		q    float64
		want float64
	}{
		{1.5, 1.0},
		{2.5, 2.0},
	}
	for _, tt := range tests {
		got, err := Eval(xs, ys, tt.q)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9, "q=%v", tt.q)
	}
}

func TestEvalTooFewPoints(t *testing.T) {
	_, err := Eval([]float64{1}, []float64{1}, 1)
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestEvalShapeMismatch(t *testing.T) {
	_, err := Eval([]float64{1, 2, 3}, []float64{1, 2}, 1.5)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestEvalDegenerateLevels(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{1, 1, 2, 3}
	_, err := Eval(xs, ys, 0.5)
	assert.ErrorIs(t, err, ErrDegenerateSpan)
}
