// Package surface turns raw (time, delta, level) observations into a
// rectangular volatility grid and answers batches of interpolation
// queries against it.
package surface

import (
	"fmt"
	"math"
)

// Surface is a rectangular volatility grid. Grid is indexed
// [time][delta]; both axes keep the order in which their values first
// appeared in the raw observations.
type Surface struct {
	TimeAxis  []float64
	DeltaAxis []float64
	Grid      [][]float64
}

// cellKey identifies one grid cell. Keys are compared by exact bit
// equality, which is safe because both components originate from the same
// source values and are never recomputed.
type cellKey struct {
	time  float64
	delta float64
}

// Build aggregates raw parallel observation arrays into a Surface.
//
// Observations sharing a (time, delta) cell are summed. A NaN time or
// delta marks a blank input cell: the observation is skipped during
// aggregation and the NaN never becomes an axis value, but the other,
// non-blank coordinate of such a row still claims its axis position.
// Cells with no observation are zero-filled.
func Build(times, deltas, vols []float64) (*Surface, error) {
	if len(times) != len(deltas) || len(times) != len(vols) {
		return nil, fmt.Errorf("surface: parallel arrays disagree: times=%d deltas=%d vols=%d",
			len(times), len(deltas), len(vols))
	}

	cells := make(map[cellKey]float64, len(times))
	for i := range times {
		if math.IsNaN(times[i]) || math.IsNaN(deltas[i]) {
			continue
		}
		cells[cellKey{time: times[i], delta: deltas[i]}] += vols[i]
	}

	timeAxis := firstAppearance(times)
	deltaAxis := firstAppearance(deltas)

	grid := make([][]float64, len(timeAxis))
	for t, tv := range timeAxis {
		row := make([]float64, len(deltaAxis))
		for d, dv := range deltaAxis {
			row[d] = cells[cellKey{time: tv, delta: dv}]
		}
		grid[t] = row
	}

	return &Surface{TimeAxis: timeAxis, DeltaAxis: deltaAxis, Grid: grid}, nil
}

// firstAppearance deduplicates vals keeping the first occurrence of each
// value in original order. NaN entries are dropped.
func firstAppearance(vals []float64) []float64 {
	seen := make(map[float64]struct{}, len(vals))
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
