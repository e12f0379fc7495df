package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sevencore/tradesim/coinbase"
	"github.com/sevencore/tradesim/server"
	"github.com/sevencore/tradesim/sim"
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Serve a simulation fed by live Coinbase prices",
	Long: `Live starts the HTTP simulation server bound to the Coinbase price
APIs. With --paper the simulation only tracks prices; without it, every
simulated fill is mirrored as a real Coinbase order, which requires
coinbase credentials in the config file.

Example:
  tradesim live -f keys.yaml --paper`,
	RunE: runLive,
}

var livePaper bool

func init() {
	rootCmd.AddCommand(liveCmd)

	liveCmd.Flags().BoolVar(&livePaper, "paper", false, "track live prices without placing real orders")
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateLive(livePaper); err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	client := coinbase.NewClient(coinbase.Config{
		Auth:        cfg.Coinbase.Auth,
		Account:     cfg.Coinbase.Account,
		Payment:     cfg.Coinbase.Payment,
		BaseURL:     cfg.Coinbase.BaseURL,
		ExchangeURL: cfg.Coinbase.ExchangeURL,
	})

	var sink sim.OrderSink
	if !livePaper {
		sink = coinbase.NewSink(client)
	}

	j, err := newJournal(cfg)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	trader, err := sim.New(context.Background(), sim.Config{
		Account: cfg.Account.Balance,
		Ticker:  cfg.Account.Ticker,
		Source:  coinbase.NewLiveSource(client, cfg.Source.Window),
		Sink:    sink,
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

	mode := "live"
	if livePaper {
		mode = "paper"
	}
	log.Info("serving live simulation",
		zap.String("addr", cfg.Server.Addr),
		zap.String("ticker", cfg.Account.Ticker),
		zap.String("mode", mode))

	return http.ListenAndServe(cfg.Server.Addr, srv.Router())
}
