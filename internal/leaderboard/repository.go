package leaderboard

import "context"

type Repository interface {
	// Top orders by rank_position ascending with unranked rows last.
	Top(ctx context.Context, limit int) ([]Entry, error)
	ForProfile(ctx context.Context, profileID string) (*Entry, error)

	// Recompute rebuilds totals and dense ranks from contributions and
	// returns the number of ranked rows.
	Recompute(ctx context.Context) (int, error)
}
