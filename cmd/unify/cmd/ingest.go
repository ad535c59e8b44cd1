package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/unify"
	"github.com/agentstation/unify/internal/config"
	"github.com/agentstation/unify/internal/readers"
	"github.com/agentstation/unify/pkg/logging"
)

var (
	peopleJSONPath   string
	peopleYMLPath    string
	transactionsPath string
	transfersPath    string
	promotionsPath   string
)

// ingestCmd runs one ingestion batch from source files.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run one ingestion batch from source files",
	Long: `Ingest reads the given source files, reconciles people across
sources, and writes the canonical dataset in a single transaction.
Sources not provided simply contribute nothing to the batch.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&peopleJSONPath, "people-json", "", "object-list people file (JSON)")
	ingestCmd.Flags().StringVar(&peopleYMLPath, "people-yml", "", "flat people file (YAML)")
	ingestCmd.Flags().StringVar(&transactionsPath, "transactions", "", "transaction feed (XML)")
	ingestCmd.Flags().StringVar(&transfersPath, "transfers", "", "transfer feed (CSV)")
	ingestCmd.Flags().StringVar(&promotionsPath, "promotions", "", "promotion feed (CSV)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	input, err := loadInput()
	if err != nil {
		return err
	}

	u, err := unify.New(unify.WithDBPath(config.DBPath(dbPath)))
	if err != nil {
		return err
	}
	defer func() { _ = u.Close() }()

	ctx := logging.WithLogger(cmd.Context(), logging.Default())
	result, err := u.Ingest(ctx, input)
	if err != nil {
		return err
	}

	printReport(cmd, result)
	return nil
}

// loadInput reads every provided source file into one batch input.
func loadInput() (unify.Input, error) {
	var input unify.Input
	var err error

	if peopleJSONPath != "" {
		if input.ObjectListPeople, err = readers.PeopleObjectList(peopleJSONPath); err != nil {
			return input, err
		}
	}
	if peopleYMLPath != "" {
		if input.FlatPeople, err = readers.PeopleFlat(peopleYMLPath); err != nil {
			return input, err
		}
	}
	if transactionsPath != "" {
		if input.Transactions, err = readers.Transactions(transactionsPath); err != nil {
			return input, err
		}
	}
	if transfersPath != "" {
		if input.Transfers, err = readers.Transfers(transfersPath); err != nil {
			return input, err
		}
	}
	if promotionsPath != "" {
		if input.Promotions, err = readers.Promotions(promotionsPath); err != nil {
			return input, err
		}
	}
	return input, nil
}

// printReport writes the per-batch operator report.
func printReport(cmd *cobra.Command, result *unify.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Summary())

	for _, err := range result.Malformed {
		fmt.Fprintf(out, "skipped: %v\n", err)
	}
	for _, rejection := range result.RejectedIdentities {
		fmt.Fprintf(out, "rejected: %v\n", rejection.Err)
	}
	for _, rejected := range result.RejectedDependents {
		fmt.Fprintf(out, "rejected: %v\n", rejected.Err)
	}
}
