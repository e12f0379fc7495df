package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevencore/tradesim/market"
	"github.com/sevencore/tradesim/sim"
)

func testSeries() *market.Series {
	return market.NewSeries([]market.Candle{
		{High: 11, Low: 9, Close: 10},
		{High: 12, Low: 10, Close: 11},
		{High: 13, Low: 11, Close: 12},
		{High: 14, Low: 12, Close: 13},
		{High: 15, Low: 13, Close: 14},
	})
}

func newTestServer(t *testing.T, sink sim.OrderSink) *httptest.Server {
	t.Helper()

	feed, err := sim.NewWindowFeed(testSeries(), 3, 2)
	require.NoError(t, err)

	trader, err := sim.New(context.Background(), sim.Config{
		Account: 1000,
		Ticker:  "AAPL",
		Source:  feed,
		Sink:    sink,
	})
	require.NoError(t, err)

	srv := New(trader, Config{ResetBalance: 1000, ResetTicker: "AAPL"})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postTrade(t *testing.T, ts *httptest.Server, action, amount string) *http.Response {
	t.Helper()
	resp, err := http.PostForm(ts.URL+"/trade/"+action, url.Values{"amount": {amount}})
	require.NoError(t, err)
	return resp
}

func decodeSnapshot(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestDataReturnsSnapshot(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/data")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	snap := decodeSnapshot(t, resp)
	assert.Equal(t, []any{10.0, 11.0, 12.0}, snap["historical"])
	assert.Equal(t, 11.0, snap["buy"])
	assert.Equal(t, 13.0, snap["sell"])
	assert.Equal(t, 1000.0, snap["account"])
	assert.Equal(t, 0.0, snap["holding"])
}

func TestTradeBuy(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postTrade(t, ts, "buy", "100")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	snap := decodeSnapshot(t, resp)
	assert.InDelta(t, 900.0, snap["account"].(float64), 1e-9)
	assert.InDelta(t, 100.0/11.0, snap["holding"].(float64), 1e-9)
}

func TestTradeUnknownActionIsHold(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postTrade(t, ts, "shrug", "42")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	snap := decodeSnapshot(t, resp)
	assert.Equal(t, 1000.0, snap["account"])
	assert.Equal(t, 0.0, snap["holding"])
}

func TestTradeBadAmount(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postTrade(t, ts, "buy", "lots")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTradeEndOfDataConflict(t *testing.T) {
	ts := newTestServer(t, nil)

	// Start position plus two advances exhausts the five-candle series.
	for i := 0; i < 3; i++ {
		resp := postTrade(t, ts, "hold", "0")
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp := postTrade(t, ts, "hold", "0")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestResetEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postTrade(t, ts, "buy", "500")
	resp.Body.Close()

	getResp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	body := make([]byte, 16)
	n, _ := getResp.Body.Read(body)
	getResp.Body.Close()
	assert.Equal(t, "LIVE", string(body[:n]))

	dataResp, err := http.Get(ts.URL + "/data")
	require.NoError(t, err)
	snap := decodeSnapshot(t, dataResp)
	assert.Equal(t, 1000.0, snap["account"])
	assert.Equal(t, 0.0, snap["holding"])
}

func TestHistoryEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	postTrade(t, ts, "buy", "100").Body.Close()
	postTrade(t, ts, "hold", "0").Body.Close()

	resp, err := http.Get(ts.URL + "/history")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "buy", entries[0]["action"])
	assert.Equal(t, 1000.0, entries[0]["account_before"])
	assert.Equal(t, "hold", entries[1]["action"])
	assert.InDelta(t, 900.0, entries[1]["account_before"].(float64), 1e-9)
}

type failingSink struct{}

func (failingSink) Submit(context.Context, sim.OrderRequest) (sim.OrderAck, error) {
	return sim.OrderAck{}, errors.New("brokerage down")
}

func TestTradeSinkFailureReturnsWarning(t *testing.T) {
	ts := newTestServer(t, failingSink{})

	resp := postTrade(t, ts, "buy", "100")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "local state applied; sink failure is a warning")

	snap := decodeSnapshot(t, resp)
	assert.InDelta(t, 900.0, snap["account"].(float64), 1e-9)
	warning, ok := snap["warning"].(string)
	require.True(t, ok)
	assert.True(t, strings.Contains(warning, "order sink failure"))
}
