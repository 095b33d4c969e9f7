package restaurant

import "context"

type Repository interface {
	List(ctx context.Context) ([]*Restaurant, error)
	GetBySlug(ctx context.Context, slug string) (*Restaurant, error)

	// Upsert inserts by slug or refreshes the descriptive columns of an
	// existing row. The slug itself is never rewritten.
	Upsert(ctx context.Context, r *Restaurant) error
}
