package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(_ context.Context, _ *env) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
