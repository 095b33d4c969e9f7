package profile

import "context"

type Repository interface {
	// Create inserts the profile together with its empty leaderboard row.
	Create(ctx context.Context, p *Profile) error
	FindByUserID(ctx context.Context, userID string) (*Profile, error)
	FindByID(ctx context.Context, id string) (*Profile, error)
	SetRole(ctx context.Context, userID string, role Role) error
}
