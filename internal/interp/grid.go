package interp

import "fmt"

// EvalGrid interpolates a rectangular surface at (qDelta, qTime) with a
// tensor-product reduction: one spline pass along the delta axis per time
// row, then one pass along the time axis over the per-row results.
//
// grid is indexed [time][delta]; deltaAxis aligns with its columns and
// timeAxis with its rows.
func EvalGrid(deltaAxis, timeAxis []float64, grid [][]float64, qDelta, qTime float64) (float64, error) {
	if len(grid) != len(timeAxis) {
		return 0, fmt.Errorf("grid has %d rows, time axis %d: %w", len(grid), len(timeAxis), ErrShapeMismatch)
	}

	byTime := make([]float64, len(timeAxis))
	for t, row := range grid {
		if len(row) != len(deltaAxis) {
			return 0, fmt.Errorf("grid row %d has %d cells, delta axis %d: %w", t, len(row), len(deltaAxis), ErrShapeMismatch)
		}
		v, err := Eval(deltaAxis, row, qDelta)
		if err != nil {
			return 0, fmt.Errorf("delta pass, time row %d: %w", t, err)
		}
		byTime[t] = v
	}

	v, err := Eval(timeAxis, byTime, qTime)
	if err != nil {
		return 0, fmt.Errorf("time pass: %w", err)
	}
	return v, nil
}
