package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/unify/internal/config"
	"github.com/agentstation/unify/internal/storage/sqlite"
)

// reportCmd summarizes the canonical store contents.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize the canonical store contents",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := sqlite.Open(config.DBPath(dbPath))
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		counts, err := store.Counts(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "People:            %d\n", counts.People)
		fmt.Fprintf(out, "Devices:           %d\n", counts.Devices)
		fmt.Fprintf(out, "Transactions:      %d\n", counts.Transactions)
		fmt.Fprintf(out, "Transaction items: %d\n", counts.TransactionItems)
		fmt.Fprintf(out, "Transfers:         %d\n", counts.Transfers)
		fmt.Fprintf(out, "Promotions:        %d\n", counts.Promotions)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
