package sim

import "errors"

// Failure kinds surfaced by the simulation core. Callers match with
// errors.Is; every returned error wraps exactly one of these (or passes
// a collaborator error through unchanged).
var (
	// ErrSourceUnavailable - the bound price source could not produce an
	// observation (network error, rate limit, unknown ticker).
	ErrSourceUnavailable = errors.New("price source unavailable")

	// ErrInvalidPrice - a fetched buy/sell price was not positive.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrInsufficientData - a windowed feed cannot produce a full lookback
	// window at its start position.
	ErrInsufficientData = errors.New("insufficient historical data")

	// ErrEndOfData - the historical cursor reached the end of the series.
	ErrEndOfData = errors.New("end of historical data")

	// ErrSinkFailure - order submission failed after the local balances
	// were already updated. Local state is authoritative and is not rolled
	// back; the error is a warning, not a failed trade.
	ErrSinkFailure = errors.New("order sink failure")
)
