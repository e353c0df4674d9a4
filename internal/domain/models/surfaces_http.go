package models

// EvalRequest is the HTTP body for a single-group evaluation.
type EvalRequest struct {
	Asset       string     `json:"asset" validate:"required"`
	AsOf        string     `json:"as_of" validate:"omitempty,datetime=2006-01-02"`
	Times       []*float64 `json:"times" validate:"required,min=1"`
	Deltas      []*float64 `json:"deltas" validate:"required,min=1"`
	Vols        []float64  `json:"vols" validate:"required,min=1"`
	QueryDeltas []float64  `json:"query_deltas" validate:"required,min=1"`
	QueryTimes  []float64  `json:"query_times" validate:"required,min=1"`
	UseCache    *bool      `json:"use_cache" default:"true"`
}

// Group converts the request into its domain form.
func (r *EvalRequest) Group() *SurfaceGroup {
	return &SurfaceGroup{
		Asset:       r.Asset,
		AsOf:        r.AsOf,
		Times:       r.Times,
		Deltas:      r.Deltas,
		Vols:        r.Vols,
		QueryDeltas: r.QueryDeltas,
		QueryTimes:  r.QueryTimes,
	}
}

// BatchEvalRequest is the HTTP body for a multi-group evaluation. Groups
// are evaluated independently; per-group failures are reported inline.
type BatchEvalRequest struct {
	Groups []EvalRequest `json:"groups" validate:"required,min=1,dive"`
}

// ResultsRequest filters persisted interpolation results.
type ResultsRequest struct {
	Asset string `query:"asset" validate:"required"`
	AsOf  string `query:"as_of" validate:"omitempty,datetime=2006-01-02"`
	Limit int    `query:"limit" default:"100" validate:"gte=1,lte=10000"`
}
