package sim

import (
	"context"
	"fmt"

	"github.com/sevencore/tradesim/market"
)

// WindowFeed is a deterministic PriceSource over a fixed historical
// series. Each observation covers a bounded lookback window of closes and
// prices the step off the candle at the cursor: the low stands in for the
// buy price and the high for the sell price.
//
// The first NextObservation call yields the start position itself, so the
// first trade executes against the observation the trader was constructed
// with; every later call advances the cursor by exactly one (the
// construction-time fetch peeks via Current and consumes nothing). The
// feed never wraps: at the last valid position it fails with ErrEndOfData
// and leaves the cursor where it was. A fresh feed over the same series
// replays the identical sequence.
//
// WindowFeed is not safe for concurrent use on its own; the owning
// trader serializes access.
type WindowFeed struct {
	series *market.Series
	window int
	pos    int
	primed bool
}

// NewWindowFeed validates that a full window exists at start. The cursor
// may only move forward from there.
func NewWindowFeed(series *market.Series, window, start int) (*WindowFeed, error) {
	if series == nil || series.Len() == 0 {
		return nil, fmt.Errorf("%w: empty series", ErrInsufficientData)
	}
	if window <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", window)
	}
	if start < window-1 {
		return nil, fmt.Errorf("%w: start %d needs window of %d", ErrInsufficientData, start, window)
	}
	if start >= series.Len() {
		return nil, fmt.Errorf("%w: start %d beyond series length %d", ErrInsufficientData, start, series.Len())
	}

	return &WindowFeed{series: series, window: window, pos: start}, nil
}

// Current implements CurrentObserver: the observation at the cursor,
// without consuming a step.
func (f *WindowFeed) Current(ticker string) market.Observation {
	return f.observation(ticker)
}

// NextObservation implements PriceSource.
func (f *WindowFeed) NextObservation(_ context.Context, ticker string) (market.Observation, error) {
	if !f.primed {
		f.primed = true
		return f.observation(ticker), nil
	}

	if f.pos+1 >= f.series.Len() {
		return market.Observation{}, fmt.Errorf("position %d: %w", f.pos, ErrEndOfData)
	}
	f.pos++

	return f.observation(ticker), nil
}

// Position reports the current cursor index into the series.
func (f *WindowFeed) Position() int { return f.pos }

func (f *WindowFeed) observation(ticker string) market.Observation {
	return market.Observation{
		Ticker:     ticker,
		Historical: f.series.CloseRange(f.pos-f.window+1, f.pos+1),
		Buy:        f.series.Low(f.pos),
		Sell:       f.series.High(f.pos),
		Spot:       f.series.Close(f.pos),
	}
}
