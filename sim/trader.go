package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sevencore/tradesim/internal/id"
	"github.com/sevencore/tradesim/journal"
	"github.com/sevencore/tradesim/market"
)

// Snapshot is a read-only projection of the current observation and
// balances. Field names follow the wire format served by /data.
type Snapshot struct {
	Historical []float64 `json:"historical"`
	Buy        float64   `json:"buy"`
	Sell       float64   `json:"sell"`
	Account    float64   `json:"account"`
	Holding    float64   `json:"holding"`
}

// Config assembles a Trader. Source is required; Sink, Journal and Logger
// are optional.
type Config struct {
	Account float64
	Ticker  string
	Source  PriceSource
	Sink    OrderSink
	Journal journal.Journal
	Logger  *zap.Logger
}

// Trader is the single-account simulation state machine. One instance is
// shared across request handlers; a single mutex makes every public call
// atomic with respect to the others. The hot path is dominated by the
// source round trip, so no finer-grained locking is worth having.
type Trader struct {
	mu sync.Mutex

	source  PriceSource
	sink    OrderSink
	journal journal.Journal
	log     *zap.Logger

	ticker   string
	account  float64
	holdings float64
	history  []TradeRecord
	obs      market.Observation
}

// New builds a Trader and performs one initial observation fetch so the
// state is immediately queryable. A fetch failure aborts construction;
// no partially-initialized trader is ever returned.
func New(ctx context.Context, cfg Config) (*Trader, error) {
	if cfg.Source == nil {
		return nil, errors.New("price source is required")
	}
	if cfg.Ticker == "" {
		return nil, errors.New("ticker is required")
	}
	if cfg.Account < 0 {
		return nil, fmt.Errorf("initial account must not be negative, got %f", cfg.Account)
	}

	t := &Trader{
		source:  cfg.Source,
		sink:    cfg.Sink,
		journal: cfg.Journal,
		log:     cfg.Logger,
		ticker:  cfg.Ticker,
		account: cfg.Account,
	}
	if t.journal == nil {
		t.journal = journal.Nop{}
	}
	if t.log == nil {
		t.log = zap.NewNop()
	}

	// Replayable feeds are peeked, not consumed: their first real step
	// must still execute against the start position.
	if cur, ok := t.source.(CurrentObserver); ok {
		t.obs = cur.Current(t.ticker)
		return t, nil
	}

	obs, err := t.source.NextObservation(ctx, t.ticker)
	if err != nil {
		return nil, fmt.Errorf("initial observation for %s: %w", t.ticker, err)
	}
	t.obs = obs

	return t, nil
}

// Reset clears history and reinitializes balances and ticker. The bound
// source keeps its cursor/connection: a reset mid-replay continues from
// the current position.
func (t *Trader) Reset(account float64, ticker string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.account = account
	t.holdings = 0
	t.ticker = ticker
	t.history = nil
}

// Trade pulls the next observation from the bound source, records the
// action, and applies the buy/sell accounting. Oversized requests are
// clamped to the available balance or holdings, never rejected; a
// zero-amount buy or sell is a recorded no-op.
//
// On a source or price failure the call aborts with no balance mutation
// and no history append. A sink failure is the one non-atomic case: the
// returned error wraps ErrSinkFailure but the snapshot reflects the
// already-applied local update.
func (t *Trader) Trade(ctx context.Context, action Action) (Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	obs, err := t.source.NextObservation(ctx, t.ticker)
	if err != nil {
		return Snapshot{}, fmt.Errorf("refresh observation: %w", err)
	}

	// Validate pricing before touching any state.
	switch action.Type {
	case ActionBuy:
		if obs.Buy <= 0 {
			return Snapshot{}, fmt.Errorf("buy price %v: %w", obs.Buy, ErrInvalidPrice)
		}
	case ActionSell:
		if obs.Sell <= 0 {
			return Snapshot{}, fmt.Errorf("sell price %v: %w", obs.Sell, ErrInvalidPrice)
		}
	}

	t.obs = obs

	rec := TradeRecord{
		ID:            id.New(),
		Time:          time.Now().UTC(),
		AccountBefore: t.account,
		Action:        action,
	}
	t.history = append(t.history, rec)

	requested := action.Amount
	if requested < 0 {
		requested = 0
	}

	var executed, price float64
	switch action.Type {
	case ActionBuy:
		price = obs.Buy
		executed = min(requested, t.account)
		t.account -= executed
		t.holdings += executed / price
	case ActionSell:
		price = obs.Sell
		executed = min(requested, t.holdings)
		t.account += executed * price
		t.holdings -= executed
	case ActionHold:
		// No balance mutation; the history entry above still stands.
	}

	snap := t.snapshotLocked()

	if err := t.journal.RecordStep(journal.StepRecord{
		StepID:        rec.ID,
		Time:          rec.Time,
		Ticker:        t.ticker,
		Action:        action.Type.String(),
		Requested:     requested,
		Executed:      executed,
		Price:         price,
		AccountBefore: rec.AccountBefore,
		AccountAfter:  t.account,
		Holdings:      t.holdings,
	}); err != nil {
		t.log.Warn("journal step", zap.String("step", rec.ID), zap.Error(err))
	}

	if t.sink != nil && action.Type != ActionHold && executed > 0 {
		ack, err := t.sink.Submit(ctx, OrderRequest{
			Amount:   executed,
			Currency: t.ticker,
			IsBuy:    action.Type == ActionBuy,
		})
		if err != nil {
			t.log.Warn("order sink", zap.String("step", rec.ID), zap.Error(err))
			return snap, fmt.Errorf("submit %s order: %w: %v", action.Type, ErrSinkFailure, err)
		}
		t.log.Info("order submitted",
			zap.String("step", rec.ID),
			zap.String("order", ack.OrderID),
			zap.String("status", ack.Status))
	}

	return snap, nil
}

// Snapshot returns the current observation and balances without mutating
// anything.
func (t *Trader) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// History returns a copy of the append-only trade log, oldest first.
func (t *Trader) History() []TradeRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]TradeRecord, len(t.history))
	copy(out, t.history)
	return out
}

// Ticker reports the instrument the trader is currently bound to.
func (t *Trader) Ticker() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ticker
}

func (t *Trader) snapshotLocked() Snapshot {
	hist := make([]float64, len(t.obs.Historical))
	copy(hist, t.obs.Historical)

	return Snapshot{
		Historical: hist,
		Buy:        t.obs.Buy,
		Sell:       t.obs.Sell,
		Account:    t.account,
		Holding:    t.holdings,
	}
}
