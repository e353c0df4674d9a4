package models

import "math"

// SurfaceGroup is one logical unit of evaluation: the raw volatility
// observations of a single asset at a reference date, plus the query
// coordinates to answer. Times, Deltas and Vols run parallel; a nil Time
// or Delta marks a blank input cell.
type SurfaceGroup struct {
	Asset       string     `json:"asset"`
	AsOf        string     `json:"as_of"` // YYYY-MM-DD
	Times       []*float64 `json:"times"`
	Deltas      []*float64 `json:"deltas"`
	Vols        []float64  `json:"vols"`
	QueryDeltas []float64  `json:"query_deltas"`
	QueryTimes  []float64  `json:"query_times"`
}

// Key identifies the group within a batch.
func (g *SurfaceGroup) Key() string {
	return g.Asset + "|" + g.AsOf
}

// RawTimes returns the time column with blanks encoded as NaN, the form
// the surface builder consumes.
func (g *SurfaceGroup) RawTimes() []float64 {
	return floatsOrNaN(g.Times)
}

// RawDeltas returns the delta column with blanks encoded as NaN.
func (g *SurfaceGroup) RawDeltas() []float64 {
	return floatsOrNaN(g.Deltas)
}

func floatsOrNaN(vals []*float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		if v == nil {
			out[i] = math.NaN()
		} else {
			out[i] = *v
		}
	}
	return out
}

// SurfacePoint is one interpolated level attributed to its group.
type SurfacePoint struct {
	Asset string  `json:"asset"`
	AsOf  string  `json:"as_of"`
	Key   string  `json:"key"`
	Level float64 `json:"level"`
}

// GroupResult is the outcome of evaluating one group. A failed group
// carries its error text and no points; failures are isolated per group
// and never abort the rest of a batch.
type GroupResult struct {
	Asset  string         `json:"asset"`
	AsOf   string         `json:"as_of"`
	Points []SurfacePoint `json:"points,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Failed reports whether the group's evaluation errored.
func (r *GroupResult) Failed() bool {
	return r.Error != ""
}
