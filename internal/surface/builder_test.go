package surface

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAggregatesDuplicateCells(t *testing.T) {
	s, err := Build(
		[]float64{1, 1},
		[]float64{0.5, 0.5},
		[]float64{0.2, 0.3},
	)
	require.NoError(t, err)
	require.Len(t, s.Grid, 1)
	require.Len(t, s.Grid[0], 1)
	assert.InDelta(t, 0.5, s.Grid[0][0], 1e-12)
}

func TestBuildAxisFirstAppearanceOrder(t *testing.T) {
	s, err := Build(
		[]float64{2.0, 1.0, 2.0},
		[]float64{0.1, 0.1, 0.2},
		[]float64{1, 2, 3},
	)
	require.NoError(t, err)
	assert.Equal(t, []float64{2.0, 1.0}, s.TimeAxis)
	assert.Equal(t, []float64{0.1, 0.2}, s.DeltaAxis)
}

func TestBuildZeroFillsMissingCells(t *testing.T) {
	s, err := Build(
		[]float64{1, 2},
		[]float64{0.1, 0.2},
		[]float64{5, 7},
	)
	require.NoError(t, err)
	// (1, 0.2) and (2, 0.1) were never observed
	assert.Equal(t, 0.0, s.Grid[0][1])
	assert.Equal(t, 0.0, s.Grid[1][0])
	assert.Equal(t, 5.0, s.Grid[0][0])
	assert.Equal(t, 7.0, s.Grid[1][1])
}

func TestBuildSkipsBlankObservations(t *testing.T) {
	nan := math.NaN()
	s, err := Build(
		[]float64{1, nan, 2},
		[]float64{0.1, 0.2, nan},
		[]float64{5, 9, 9},
	)
	require.NoError(t, err)
	// blank rows never aggregate, but their non-blank coordinate still
	// claims an axis position
	assert.Equal(t, []float64{1, 2}, s.TimeAxis)
	assert.Equal(t, []float64{0.1, 0.2}, s.DeltaAxis)
	assert.Equal(t, 5.0, s.Grid[0][0])
	assert.Equal(t, 0.0, s.Grid[0][1])
	assert.Equal(t, 0.0, s.Grid[1][0])
	assert.Equal(t, 0.0, s.Grid[1][1])
}

func TestBuildRejectsRaggedInput(t *testing.T) {
	_, err := Build([]float64{1}, []float64{0.1, 0.2}, []float64{5})
	assert.Error(t, err)
}
