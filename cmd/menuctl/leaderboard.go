package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/leaderboard"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Leaderboard maintenance",
}

var leaderboardRecomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Rebuild karma totals and dense ranks from daily contributions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, e *env) error {
			n, err := leaderboard.NewPostgresRepository(e.pool).Recompute(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d leaderboard entries\n", n)
			return nil
		})
	},
}

func init() {
	leaderboardCmd.AddCommand(leaderboardRecomputeCmd)
	rootCmd.AddCommand(leaderboardCmd)
}
