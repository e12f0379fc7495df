package coinbase

import (
	"context"
	"fmt"
	"time"

	"github.com/sevencore/tradesim/market"
	"github.com/sevencore/tradesim/sim"
)

// LiveSource adapts the Coinbase client to sim.PriceSource. Every call
// issues fresh fetches; any transport failure surfaces as
// sim.ErrSourceUnavailable so the core stays ignorant of transport
// details.
type LiveSource struct {
	client *Client
	window int
}

func NewLiveSource(client *Client, window int) *LiveSource {
	return &LiveSource{client: client, window: window}
}

func (s *LiveSource) NextObservation(ctx context.Context, ticker string) (market.Observation, error) {
	hist, err := s.client.GetHistory(ctx, ticker, s.window)
	if err != nil {
		return market.Observation{}, fmt.Errorf("%w: %v", sim.ErrSourceUnavailable, err)
	}

	prices, err := s.client.GetPrices(ctx, ticker)
	if err != nil {
		return market.Observation{}, fmt.Errorf("%w: %v", sim.ErrSourceUnavailable, err)
	}

	return market.Observation{
		Ticker:     ticker,
		Time:       time.Now().UTC(),
		Historical: hist,
		Buy:        prices.Buy,
		Sell:       prices.Sell,
		Spot:       prices.Spot,
	}, nil
}

// Sink adapts the client to sim.OrderSink.
type Sink struct {
	client *Client
}

func NewSink(client *Client) *Sink {
	return &Sink{client: client}
}

func (s *Sink) Submit(ctx context.Context, req sim.OrderRequest) (sim.OrderAck, error) {
	orderID, status, err := s.client.SubmitOrder(ctx, req.Amount, req.Currency, req.IsBuy)
	if err != nil {
		return sim.OrderAck{}, err
	}
	return sim.OrderAck{OrderID: orderID, Status: status}, nil
}
