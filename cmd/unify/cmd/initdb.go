package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/unify/internal/config"
	"github.com/agentstation/unify/internal/storage/sqlite"
)

// initdbCmd creates the canonical store and applies migrations.
var initdbCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Create the canonical store and apply migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := config.DBPath(dbPath)
		store, err := sqlite.Open(path)
		if err != nil {
			return err
		}
		if err := store.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Canonical store ready at %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initdbCmd)
}
