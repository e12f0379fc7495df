package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevencore/tradesim/market"
)

func scenarioSeries() *market.Series {
	return market.NewSeries([]market.Candle{
		{Open: 10, High: 11, Low: 9, Close: 10},
		{Open: 11, High: 12, Low: 10, Close: 11},
		{Open: 12, High: 13, Low: 11, Close: 12},
		{Open: 13, High: 14, Low: 12, Close: 13},
		{Open: 14, High: 15, Low: 13, Close: 14},
	})
}

func TestNewWindowFeedValidation(t *testing.T) {
	series := scenarioSeries()

	tests := []struct {
		name   string
		window int
		start  int
	}{
		{"start before full window", 3, 1},
		{"start at series end", 3, 5},
		{"start past series end", 3, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWindowFeed(series, tt.window, tt.start)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInsufficientData)
		})
	}

	t.Run("zero window", func(t *testing.T) {
		_, err := NewWindowFeed(series, 0, 2)
		assert.Error(t, err)
	})

	t.Run("empty series", func(t *testing.T) {
		_, err := NewWindowFeed(market.NewSeries(nil), 1, 0)
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("minimal valid start", func(t *testing.T) {
		feed, err := NewWindowFeed(series, 3, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, feed.Position())
	})
}

func TestWindowFeedSequence(t *testing.T) {
	feed, err := NewWindowFeed(scenarioSeries(), 3, 2)
	require.NoError(t, err)

	ctx := context.Background()

	// First call yields the start position without advancing.
	obs, err := feed.NextObservation(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 11, 12}, obs.Historical)
	assert.Equal(t, 11.0, obs.Buy)
	assert.Equal(t, 13.0, obs.Sell)
	assert.Equal(t, "AAPL", obs.Ticker)
	assert.Equal(t, 2, feed.Position())

	obs, err = feed.NextObservation(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, []float64{11, 12, 13}, obs.Historical)
	assert.Equal(t, 12.0, obs.Buy)
	assert.Equal(t, 14.0, obs.Sell)
	assert.Equal(t, 3, feed.Position())

	obs, err = feed.NextObservation(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, []float64{12, 13, 14}, obs.Historical)
	assert.Equal(t, 4, feed.Position())

	// End of series: no wraparound, cursor stays put.
	_, err = feed.NextObservation(ctx, "AAPL")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEndOfData)
	assert.Equal(t, 4, feed.Position())

	// Still exhausted on retry.
	_, err = feed.NextObservation(ctx, "AAPL")
	assert.ErrorIs(t, err, ErrEndOfData)
}

func TestWindowFeedCurrentDoesNotConsume(t *testing.T) {
	feed, err := NewWindowFeed(scenarioSeries(), 3, 2)
	require.NoError(t, err)

	cur := feed.Current("AAPL")
	assert.Equal(t, []float64{10, 11, 12}, cur.Historical)
	assert.Equal(t, 2, feed.Position())

	// The first real step still yields the start position.
	obs, err := feed.NextObservation(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, cur, obs)
	assert.Equal(t, 2, feed.Position())
}

func TestWindowFeedIsDeterministic(t *testing.T) {
	series := scenarioSeries()
	ctx := context.Background()

	a, err := NewWindowFeed(series, 2, 1)
	require.NoError(t, err)
	b, err := NewWindowFeed(series, 2, 1)
	require.NoError(t, err)

	for {
		oa, errA := a.NextObservation(ctx, "AAPL")
		ob, errB := b.NextObservation(ctx, "AAPL")

		if errA != nil {
			assert.ErrorIs(t, errB, ErrEndOfData)
			break
		}
		require.NoError(t, errB)
		assert.Equal(t, oa, ob)
	}
}

func TestWindowFeedObservationIsACopy(t *testing.T) {
	feed, err := NewWindowFeed(scenarioSeries(), 3, 2)
	require.NoError(t, err)

	obs, err := feed.NextObservation(context.Background(), "AAPL")
	require.NoError(t, err)

	obs.Historical[0] = -1

	fresh, err := NewWindowFeed(scenarioSeries(), 3, 2)
	require.NoError(t, err)
	again, err := fresh.NextObservation(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 10.0, again.Historical[0])
}
