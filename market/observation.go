package market

import "time"

// Observation is the immutable price snapshot for one simulation step:
// a bounded lookback of recent closes (oldest first) plus the prices the
// step trades at. Each step produces a fresh Observation; the previous
// one is superseded, never mutated.
type Observation struct {
	Ticker     string
	Time       time.Time
	Historical []float64
	Buy        float64
	Sell       float64
	Spot       float64
}
