// Package coinbase talks to the Coinbase retail API for spot/buy/sell
// prices and order placement, and to the Coinbase Exchange API for
// historical candles.
package coinbase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL serves prices and account orders.
	DefaultBaseURL = "https://api.coinbase.com"
	// DefaultExchangeURL serves historical candles.
	DefaultExchangeURL = "https://api.exchange.coinbase.com"
)

// Config carries the credentials from the keys file. Auth is the bearer
// token; Account and Payment are the Coinbase account and payment method
// identifiers used when placing orders.
type Config struct {
	Auth        string
	Account     string
	Payment     string
	BaseURL     string
	ExchangeURL string
}

// Client is an HTTP client for the Coinbase APIs.
type Client struct {
	baseURL     string
	exchangeURL string
	auth        string
	account     string
	payment     string
	httpClient  *http.Client
}

func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	exchange := cfg.ExchangeURL
	if exchange == "" {
		exchange = DefaultExchangeURL
	}

	return &Client{
		baseURL:     base,
		exchangeURL: exchange,
		auth:        cfg.Auth,
		account:     cfg.Account,
		payment:     cfg.Payment,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Prices bundles the three quoted prices for a ticker.
type Prices struct {
	Buy  float64
	Sell float64
	Spot float64
}

// priceResponse mirrors /v2/prices/{pair}/{kind}.
type priceResponse struct {
	Data struct {
		Base     string `json:"base"`
		Currency string `json:"currency"`
		Amount   string `json:"amount"`
	} `json:"data"`
}

// GetPrices fetches the current buy, sell, and spot prices for ticker
// quoted in USD.
func (c *Client) GetPrices(ctx context.Context, ticker string) (Prices, error) {
	var p Prices
	var err error

	if p.Buy, err = c.getPrice(ctx, ticker, "buy"); err != nil {
		return Prices{}, err
	}
	if p.Sell, err = c.getPrice(ctx, ticker, "sell"); err != nil {
		return Prices{}, err
	}
	if p.Spot, err = c.getPrice(ctx, ticker, "spot"); err != nil {
		return Prices{}, err
	}

	return p, nil
}

func (c *Client) getPrice(ctx context.Context, ticker, kind string) (float64, error) {
	url := fmt.Sprintf("%s/v2/prices/%s-USD/%s", c.baseURL, ticker, kind)

	var resp priceResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return 0, fmt.Errorf("fetch %s price: %w", kind, err)
	}

	amount, err := strconv.ParseFloat(resp.Data.Amount, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s price %q: %w", kind, resp.Data.Amount, err)
	}
	return amount, nil
}

// GetHistory fetches up to n hourly closes for ticker, most recent last.
func (c *Client) GetHistory(ctx context.Context, ticker string, n int) ([]float64, error) {
	url := fmt.Sprintf("%s/products/%s-USD/candles?granularity=3600", c.exchangeURL, ticker)

	// The exchange returns rows of [time, low, high, open, close, volume],
	// newest first.
	var rows [][]float64
	if err := c.getJSON(ctx, url, &rows); err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	if len(rows) > n {
		rows = rows[:n]
	}

	closes := make([]float64, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		if len(row) < 6 {
			return nil, fmt.Errorf("candle row has %d fields, want 6", len(row))
		}
		closes = append(closes, row[4])
	}

	return closes, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if c.auth != "" {
		req.Header.Set("Authorization", "Bearer "+c.auth)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// orderResponse mirrors the fields we need from
// /v2/accounts/{account}/{buys,sells}.
type orderResponse struct {
	Data struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"data"`
}

// SubmitOrder places a buy or sell with the configured account and
// payment method. Amount is quote currency for buys and base units for
// sells, matching what the simulation executed locally.
func (c *Client) SubmitOrder(ctx context.Context, amount float64, currency string, isBuy bool) (string, string, error) {
	side := "sells"
	if isBuy {
		side = "buys"
	}
	url := fmt.Sprintf("%s/v2/accounts/%s/%s", c.baseURL, c.account, side)

	payload, err := json.Marshal(map[string]string{
		"amount":         strconv.FormatFloat(amount, 'f', -1, 64),
		"currency":       currency,
		"payment_method": c.payment,
	})
	if err != nil {
		return "", "", fmt.Errorf("marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.auth)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var order orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return "", "", fmt.Errorf("decode response: %w", err)
	}

	return order.Data.ID, order.Data.Status, nil
}
