package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointKey(t *testing.T) {
	tests := []struct {
		delta float64
		time  float64
		want  string
	}{
		{0.075, 2.5, "075_00003"}, // 2.5 rounds up
		{0.05, 1.0, "050_00001"},
		{0.1, 365, "100_00365"},
		{0.999, 0.4, "999_00000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PointKey(tt.delta, tt.time))
	}
}

func TestEvaluateScenario(t *testing.T) {
	s, err := Build(
		[]float64{1.0, 2.0, 1.0, 2.0},
		[]float64{0.05, 0.05, 0.1, 0.1},
		[]float64{0.3, 0.5, 0.6, 0.1},
	)
	require.NoError(t, err)

	points, err := s.Evaluate([]float64{0.075, 0.085}, []float64{1.5, 2.5})
	require.NoError(t, err)
	require.Len(t, points, 4)

	// time outer, delta inner
	keys := []string{points[0].Key, points[1].Key, points[2].Key, points[3].Key}
	assert.Equal(t, []string{"075_00002", "085_00002", "075_00003", "085_00003"}, keys)

	// both axes have two points, so every pass is linear; 2.5 clamps to
	// the last time row
	assert.InDelta(t, 0.375, points[0].Level, 1e-12)
	assert.InDelta(t, 0.365, points[1].Level, 1e-12)
	assert.InDelta(t, 0.3, points[2].Level, 1e-12)
	assert.InDelta(t, 0.22, points[3].Level, 1e-12)
}

func TestEvaluatePreservesQueryOrder(t *testing.T) {
	s, err := Build(
		[]float64{1, 2},
		[]float64{0.1, 0.2},
		[]float64{1, 2},
	)
	require.NoError(t, err)

	points, err := s.Evaluate([]float64{0.2, 0.1}, []float64{2, 1})
	require.NoError(t, err)
	require.Len(t, points, 4)
	assert.Equal(t, "200_00002", points[0].Key)
	assert.Equal(t, "100_00002", points[1].Key)
	assert.Equal(t, "200_00001", points[2].Key)
	assert.Equal(t, "100_00001", points[3].Key)
}

func TestEvaluateSurfacesEngineError(t *testing.T) {
	// a single time level leaves the time axis with one point
	s, err := Build(
		[]float64{1, 1},
		[]float64{0.1, 0.2},
		[]float64{1, 2},
	)
	require.NoError(t, err)

	_, err = s.Evaluate([]float64{0.15}, []float64{1})
	assert.Error(t, err)
}
