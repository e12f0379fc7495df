package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sevencore/tradesim/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal <db-path>",
	Short: "Print the steps recorded in a SQLite journal",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournal,
}

func init() {
	rootCmd.AddCommand(journalCmd)
}

func runJournal(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(args[0])
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	steps, err := j.ListSteps(cmd.Context())
	if err != nil {
		return fmt.Errorf("list steps: %w", err)
	}

	fmt.Printf("%-27s %-6s %-5s %12s %12s %12s %12s\n",
		"TIME", "TICKER", "SIDE", "EXECUTED", "PRICE", "ACCOUNT", "HOLDINGS")
	for _, s := range steps {
		fmt.Printf("%-27s %-6s %-5s %12.4f %12.4f %12.2f %12.6f\n",
			s.Time.Format("2006-01-02T15:04:05.000Z"),
			s.Ticker, s.Action, s.Executed, s.Price, s.AccountAfter, s.Holdings)
	}
	fmt.Printf("\n%d steps\n", len(steps))

	return nil
}
