// Package journal records executed simulation steps for later analysis.
// The journal is write-mostly observability: the simulation never reads
// its own state back from it.
package journal

import "time"

// StepRecord captures one executed trade step.
type StepRecord struct {
	StepID        string
	Time          time.Time
	Ticker        string
	Action        string
	Requested     float64
	Executed      float64
	Price         float64
	AccountBefore float64
	AccountAfter  float64
	Holdings      float64
}

type Journal interface {
	RecordStep(StepRecord) error
	Close() error
}

// Nop discards everything. It is the default when no journal is
// configured.
type Nop struct{}

func (Nop) RecordStep(StepRecord) error { return nil }
func (Nop) Close() error                { return nil }
