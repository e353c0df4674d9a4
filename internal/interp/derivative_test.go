package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlopeTwoPoints(t *testing.T) {
	xs := []float64{0, 2}
	ys := []float64{0, 4}

	for _, at := range []Boundary{AtStart, AtEnd} {
		got, err := Slope(xs, ys, 0, at)
		require.NoError(t, err)
		assert.InDelta(t, 2.0, got, 1e-12)
	}
}

func TestSlopeStart(t *testing.T) {
	tests := []struct {
		name string
		ys   []float64
		want float64
	}{
		// inverse slopes 1 then 0.5: shape change, simple two-point slope
		{"simple branch", []float64{0, 1, 3}, 1.0},
		// inverse slopes 0.5 then 1: blend 3*2/2 - 1/2
		{"blend branch", []float64{0, 2, 3}, 2.5},
	}

	xs := []float64{0, 1, 2}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Slope(xs, tt.ys, 0, AtStart)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestSlopeEnd(t *testing.T) {
	tests := []struct {
		name string
		ys   []float64
		want float64
	}{
		// inverse slopes drop across the last two intervals: simple slope
		{"simple branch", []float64{0, 1, 3}, 2.0},
		// blend 3*1/2 - 2/2
		{"blend branch", []float64{0, 2, 3}, 0.5},
	}

	xs := []float64{0, 1, 2}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Slope(xs, tt.ys, len(xs)-1, AtEnd)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestSlopeInterior(t *testing.T) {
	t.Run("blend branch", func(t *testing.T) {
		xs := []float64{0, 1, 2, 3}
		ys := []float64{0, 1, 3, 4}
		got, err := Slope(xs, ys, 1, AtInterior)
		require.NoError(t, err)
		assert.InDelta(t, 2.5, got, 1e-12)
	})

	t.Run("centered branch", func(t *testing.T) {
		xs := []float64{0, 1, 2, 3}
		ys := []float64{0, 2, 3, 10}
		got, err := Slope(xs, ys, 1, AtInterior)
		require.NoError(t, err)
		// central difference (ys[2]-ys[0]) / (xs[2]-xs[0])
		assert.InDelta(t, 1.5, got, 1e-12)
	})

	t.Run("backward fallback without further point", func(t *testing.T) {
		xs := []float64{0, 1, 2}
		ys := []float64{0, 2, 3}
		got, err := Slope(xs, ys, 1, AtInterior)
		require.NoError(t, err)
		assert.InDelta(t, 2.0, got, 1e-12)
	})
}

func TestSlopeDegenerateSpan(t *testing.T) {
	t.Run("equal levels", func(t *testing.T) {
		_, err := Slope([]float64{0, 1, 2}, []float64{0, 0, 1}, 0, AtStart)
		assert.ErrorIs(t, err, ErrDegenerateSpan)
	})

	t.Run("equal abscissae", func(t *testing.T) {
		_, err := Slope([]float64{0, 0}, []float64{0, 1}, 0, AtStart)
		assert.ErrorIs(t, err, ErrDegenerateSpan)
	})
}
