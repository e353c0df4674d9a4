package surface

import (
	"fmt"
	"math"

	"VolSurf/internal/interp"
)

// Point is one interpolated surface level keyed by its query coordinates.
type Point struct {
	Key   string  `json:"key"`
	Level float64 `json:"level"`
}

// PointKey formats the output key for a query coordinate: the delta
// component is round(delta*1000) zero-padded to three digits, the time
// component round(time) zero-padded to five, joined by an underscore.
func PointKey(delta, time float64) string {
	return fmt.Sprintf("%03d_%05d", int(math.Round(delta*1000)), int(math.Round(time)))
}

// Evaluate interpolates the surface at the Cartesian product of the query
// sequences, time in the outer loop and delta in the inner loop. Neither
// sequence is sorted; output order mirrors input iteration order exactly,
// one Point per (time, delta) pair.
func (s *Surface) Evaluate(queryDeltas, queryTimes []float64) ([]Point, error) {
	out := make([]Point, 0, len(queryDeltas)*len(queryTimes))
	for _, qt := range queryTimes {
		for _, qd := range queryDeltas {
			v, err := interp.EvalGrid(s.DeltaAxis, s.TimeAxis, s.Grid, qd, qt)
			if err != nil {
				return nil, fmt.Errorf("query (delta=%v, time=%v): %w", qd, qt, err)
			}
			out = append(out, Point{Key: PointKey(qd, qt), Level: v})
		}
	}
	return out, nil
}
