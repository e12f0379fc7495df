package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevencore/tradesim/coinbase"
)

var watchCmd = &cobra.Command{
	Use:   "watch [ticker]",
	Short: "Poll and print live prices for a ticker",
	Long: `Watch polls the Coinbase price API and prints the latest buy, sell,
and spot prices until interrupted.

Example:
  tradesim watch BTC --interval 5s`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

var watchInterval time.Duration

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchInterval, "interval", 10*time.Second, "polling interval")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ticker := cfg.Account.Ticker
	if len(args) == 1 {
		ticker = args[0]
	}

	client := coinbase.NewClient(coinbase.Config{
		BaseURL:     cfg.Coinbase.BaseURL,
		ExchangeURL: cfg.Coinbase.ExchangeURL,
	})

	ctx := cmd.Context()
	tick := time.NewTicker(watchInterval)
	defer tick.Stop()

	for {
		prices, err := client.GetPrices(ctx, ticker)
		if err != nil {
			fmt.Printf("%s  %s  error: %v\n", time.Now().Format(time.RFC3339), ticker, err)
		} else {
			fmt.Printf("%s  %s  buy=%.2f sell=%.2f spot=%.2f\n",
				time.Now().Format(time.RFC3339), ticker, prices.Buy, prices.Sell, prices.Spot)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
	}
}
