package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sevencore/tradesim/market"
	"github.com/sevencore/tradesim/server"
	"github.com/sevencore/tradesim/sim"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a backtest simulation over a historical CSV series",
	Long: `Serve starts the HTTP simulation server backed by a historical
OHLC series. Every POST /trade advances the replay cursor by one candle.

Example:
  tradesim serve -f config.yaml --file data/aapl.csv`,
	RunE: runServe,
}

var serveFile string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveFile, "file", "", "historical CSV file (overrides source.file)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if serveFile != "" {
		cfg.Source.File = serveFile
	}
	if err := cfg.ValidateBacktest(); err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	series, err := market.LoadCSV(cfg.Source.File)
	if err != nil {
		return fmt.Errorf("load series: %w", err)
	}

	feed, err := sim.NewWindowFeed(series, cfg.Source.Window, cfg.Source.Start)
	if err != nil {
		return fmt.Errorf("create feed: %w", err)
	}

	j, err := newJournal(cfg)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	trader, err := sim.New(context.Background(), sim.Config{
		Account: cfg.Account.Balance,
		Ticker:  cfg.Account.Ticker,
		Source:  feed,
		Journal: j,
		Logger:  log,
	})
	if err != nil {
		return fmt.Errorf("create trader: %w", err)
	}

	srv := server.New(trader, server.Config{
		ResetBalance: cfg.Account.Balance,
		ResetTicker:  cfg.Account.Ticker,
		Logger:       log,
	})

	log.Info("serving backtest simulation",
		zap.String("addr", cfg.Server.Addr),
		zap.String("file", cfg.Source.File),
		zap.Int("candles", series.Len()),
		zap.Int("window", cfg.Source.Window))

	return http.ListenAndServe(cfg.Server.Addr, srv.Router())
}
