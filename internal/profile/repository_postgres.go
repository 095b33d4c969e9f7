package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/db"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: pool}
}

// --------------------------------------------------
// Onboarding: profile + leaderboard row
// --------------------------------------------------
func (r *PostgresRepository) Create(ctx context.Context, p *Profile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO user_profiles (
			user_id,
			display_name,
			avatar_url,
			role,
			dietary_preference
		)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, karma_points, created_at, updated_at
	`,
		p.UserID,
		p.DisplayName,
		p.AvatarURL,
		p.Role,
		p.DietaryPreference,
	).Scan(&p.ID, &p.KarmaPoints, &p.CreatedAt, &p.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return ErrExists
	}
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO leaderboard (user_id, rank_position, total_karma)
		VALUES ($1, NULL, 0)
		ON CONFLICT (user_id) DO NOTHING
	`, p.ID); err != nil {
		return fmt.Errorf("insert leaderboard row: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) FindByUserID(ctx context.Context, userID string) (*Profile, error) {
	return r.findOne(ctx, "user_id", userID)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*Profile, error) {
	return r.findOne(ctx, "id", id)
}

// column is one of the two fixed keys above, never caller input.
func (r *PostgresRepository) findOne(ctx context.Context, column, value string) (*Profile, error) {
	var p Profile
	err := r.db.QueryRow(ctx, `
		SELECT
			id,
			user_id,
			display_name,
			avatar_url,
			role,
			dietary_preference,
			karma_points,
			created_at,
			updated_at
		FROM user_profiles
		WHERE `+column+` = $1
	`, value).Scan(
		&p.ID,
		&p.UserID,
		&p.DisplayName,
		&p.AvatarURL,
		&p.Role,
		&p.DietaryPreference,
		&p.KarmaPoints,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &p, nil
}

func (r *PostgresRepository) SetRole(ctx context.Context, userID string, role Role) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE user_profiles
		SET role = $2, updated_at = now()
		WHERE user_id = $1
	`, userID, role)
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
