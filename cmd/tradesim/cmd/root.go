package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sevencore/tradesim/config"
	"github.com/sevencore/tradesim/journal"
)

var rootCmd = &cobra.Command{
	Use:   "tradesim",
	Short: "A single-account trading simulator with backtest and live drivers",
	Long: `Tradesim simulates a trading strategy against a stream of price
observations and serves the running simulation over HTTP.

It provides tools for:
  - Replaying historical OHLC series with a bounded lookback window
  - Paper trading against live Coinbase prices
  - Live trading that mirrors simulated fills to Coinbase orders
  - Journaling executed steps to CSV or SQLite`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "f", "", "path to config file (YAML or JSON)")
}

// loadConfig returns the file-based config, or defaults when no file was
// given.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(configPath)
}

// newJournal builds the configured journal backend.
func newJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "", "none":
		return journal.Nop{}, nil
	case "csv":
		return journal.NewCSV(cfg.Journal.File)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Journal.Type)
	}
}

// newLogger builds the process logger.
func newLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}
