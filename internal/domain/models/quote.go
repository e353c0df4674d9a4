package models

// Quote is a single streamed volatility observation: one measured surface
// point for an asset at a reference date.
type Quote struct {
	Asset string  `json:"asset"`
	AsOf  string  `json:"as_of"`
	Time  float64 `json:"time"`
	Delta float64 `json:"delta"`
	Vol   float64 `json:"vol"`
}

// GroupKey identifies the surface group the quote belongs to.
func (q *Quote) GroupKey() string {
	return q.Asset + "|" + q.AsOf
}
