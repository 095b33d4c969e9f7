package restaurant

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const restaurantColumns = `
	id,
	name,
	location,
	slug,
	latitude,
	longitude,
	distance_estimate_m,
	created_at
`

func scanRestaurant(row pgx.Row) (*Restaurant, error) {
	var r Restaurant
	err := row.Scan(
		&r.ID,
		&r.Name,
		&r.Location,
		&r.Slug,
		&r.Latitude,
		&r.Longitude,
		&r.DistanceEstimateM,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// --------------------------------------------------
// List all restaurants by name
// --------------------------------------------------
func (r *PostgresRepository) List(ctx context.Context) ([]*Restaurant, error) {
	rows, err := r.db.Query(ctx, `SELECT `+restaurantColumns+` FROM restaurants ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	var out []*Restaurant
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		out = append(out, rest)
	}
	return out, rows.Err()
}

// --------------------------------------------------
// Lookup by slug
// --------------------------------------------------
func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*Restaurant, error) {
	row := r.db.QueryRow(ctx, `SELECT `+restaurantColumns+` FROM restaurants WHERE slug = $1`, slug)

	rest, err := scanRestaurant(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("slug %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant %q: %w", slug, err)
	}
	return rest, nil
}

// --------------------------------------------------
// Seed upsert
// --------------------------------------------------
func (r *PostgresRepository) Upsert(ctx context.Context, rest *Restaurant) error {
	query := `
		INSERT INTO restaurants (
			name,
			location,
			slug,
			latitude,
			longitude,
			distance_estimate_m
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			location = EXCLUDED.location,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			distance_estimate_m = EXCLUDED.distance_estimate_m
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx,
		query,
		rest.Name,
		rest.Location,
		rest.Slug,
		rest.Latitude,
		rest.Longitude,
		rest.DistanceEstimateM,
	).Scan(&rest.ID, &rest.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert restaurant %q: %w", rest.Slug, err)
	}
	return nil
}
