package sim

import (
	"context"

	"github.com/sevencore/tradesim/market"
)

// PriceSource produces the next price observation for a ticker. The
// historical implementation advances a cursor over a fixed series; the
// live implementation issues a fresh fetch on every call. Calls may block
// on network I/O; failures must wrap ErrSourceUnavailable or ErrEndOfData.
type PriceSource interface {
	NextObservation(ctx context.Context, ticker string) (market.Observation, error)
}

// CurrentObserver is an optional PriceSource refinement for replayable
// feeds: Current reports the observation at the present cursor without
// consuming a step. The trader's construction-time fetch uses it so the
// first trade still executes against the start position.
type CurrentObserver interface {
	Current(ticker string) market.Observation
}

// OrderRequest is a buy or sell instruction forwarded to a brokerage.
// Amount carries the clamped quantity actually executed locally: quote
// currency for buys, base units for sells.
type OrderRequest struct {
	Amount   float64
	Currency string
	IsBuy    bool
}

// OrderAck is the brokerage's acknowledgement of a submitted order.
type OrderAck struct {
	OrderID string
	Status  string
}

// OrderSink accepts buy/sell instructions. It is best-effort mirroring of
// the locally applied trade: a failure is surfaced to the caller but never
// rolls the local state back.
type OrderSink interface {
	Submit(ctx context.Context, req OrderRequest) (OrderAck, error)
}
