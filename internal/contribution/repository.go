package contribution

import "context"

type Repository interface {
	// Append stores c and refreshes the contributor's karma and rank in the
	// same unit of work.
	Append(ctx context.Context, c *Contribution) error
	ListByUser(ctx context.Context, profileID string) ([]Contribution, error)
}
