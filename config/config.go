package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete simulator configuration.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Server   ServerConfig   `json:"server" yaml:"server"`
	Source   SourceConfig   `json:"source" yaml:"source"`
	Coinbase CoinbaseConfig `json:"coinbase" yaml:"coinbase"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// AccountConfig is the simulated account's starting state. Reset (GET /)
// restores these values.
type AccountConfig struct {
	Balance float64 `json:"balance" yaml:"balance"`
	Ticker  string  `json:"ticker" yaml:"ticker"`
}

// ServerConfig contains the HTTP listener parameters.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// SourceConfig describes where price observations come from. File, Window
// and Start drive backtests; Window alone sizes the live lookback.
type SourceConfig struct {
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	Window int    `json:"window" yaml:"window"`
	Start  int    `json:"start" yaml:"start"`
}

// CoinbaseConfig holds the API credentials (the keys file of the original
// deployment). Required for live trading only.
type CoinbaseConfig struct {
	Auth        string `json:"auth,omitempty" yaml:"auth,omitempty"`
	Account     string `json:"account,omitempty" yaml:"account,omitempty"`
	Payment     string `json:"payment,omitempty" yaml:"payment,omitempty"`
	BaseURL     string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	ExchangeURL string `json:"exchange_url,omitempty" yaml:"exchange_url,omitempty"`
}

// JournalConfig selects the step journal backend.
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks the fields every deployment needs.
func (c *Config) Validate() error {
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if c.Account.Ticker == "" {
		return fmt.Errorf("account.ticker is required")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Source.Window <= 0 {
		return fmt.Errorf("source.window must be positive")
	}
	if c.Source.Start < 0 {
		return fmt.Errorf("source.start must not be negative")
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.File == "" {
			return fmt.Errorf("journal.file required for csv journal")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite journal")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

// ValidateBacktest adds the checks the historical driver needs.
func (c *Config) ValidateBacktest() error {
	if c.Source.File == "" {
		return fmt.Errorf("source.file is required for backtesting")
	}
	return nil
}

// ValidateLive adds the checks the live drivers need. Paper trading skips
// the order credentials.
func (c *Config) ValidateLive(paper bool) error {
	if paper {
		return nil
	}
	var missing []string
	if c.Coinbase.Auth == "" {
		missing = append(missing, "coinbase.auth")
	}
	if c.Coinbase.Account == "" {
		missing = append(missing, "coinbase.account")
	}
	if c.Coinbase.Payment == "" {
		missing = append(missing, "coinbase.payment")
	}
	if len(missing) > 0 {
		return fmt.Errorf("live trading requires %s", strings.Join(missing, ", "))
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Balance: 1000,
			Ticker:  "BTC",
		},
		Server: ServerConfig{
			Addr: ":8000",
		},
		Source: SourceConfig{
			Window: 100,
			Start:  99,
		},
		Journal: JournalConfig{
			Type: "none",
		},
	}
}
