package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalGridBilinear(t *testing.T) {
	deltaAxis := []float64{0, 1}
	timeAxis := []float64{0, 1}
	grid := [][]float64{
		{0, 1},
		{1, 2},
	}

	got, err := EvalGrid(deltaAxis, timeAxis, grid, 0.5, 0.5)
	require.NoError(t, err)
	// rows interpolate to 0.5 and 1.5, time pass to their midpoint
	assert.InDelta(t, 1.0, got, 1e-12)
}

func TestEvalGridClampsBothAxes(t *testing.T) {
	deltaAxis := []float64{0.05, 0.1}
	timeAxis := []float64{1, 2}
	grid := [][]float64{
		{0.3, 0.6},
		{0.5, 0.1},
	}

	got, err := EvalGrid(deltaAxis, timeAxis, grid, 0.2, 5)
	require.NoError(t, err)
	// beyond both axes: delta clamps each row to its last cell, time
	// clamps to the last row
	assert.InDelta(t, 0.1, got, 1e-12)
}

func TestEvalGridShapeMismatch(t *testing.T) {
	_, err := EvalGrid([]float64{0, 1}, []float64{0, 1}, [][]float64{{0, 1}}, 0.5, 0.5)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = EvalGrid([]float64{0, 1}, []float64{0, 1}, [][]float64{{0}, {1, 2}}, 0.5, 0.5)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestEvalGridPropagatesRowError(t *testing.T) {
	deltaAxis := []float64{0, 1, 2}
	timeAxis := []float64{0, 1}
	grid := [][]float64{
		{1, 1, 2}, // equal consecutive levels in the delta pass
		{1, 2, 3},
	}

	_, err := EvalGrid(deltaAxis, timeAxis, grid, 0.5, 0.5)
	assert.ErrorIs(t, err, ErrDegenerateSpan)
}
