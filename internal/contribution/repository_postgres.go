package contribution

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/leaderboard"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, c *Contribution) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO daily_contributions (
			user_id,
			restaurant_id,
			menu_image_id,
			contribution_type,
			contribution_date,
			points_earned,
			meal_session
		)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7)
		RETURNING id, created_at
	`,
		c.UserID,
		c.RestaurantID,
		c.MenuImageID,
		c.ContributionType,
		c.ContributionDate,
		c.PointsEarned,
		string(c.MealSession),
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert contribution: %w", err)
	}

	if _, err := leaderboard.RecomputeTx(ctx, tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, profileID string) ([]Contribution, error) {
	rows, err := r.db.Query(ctx, `
		SELECT
			id,
			user_id,
			restaurant_id,
			menu_image_id,
			contribution_type,
			to_char(contribution_date, 'YYYY-MM-DD'),
			points_earned,
			meal_session,
			created_at
		FROM daily_contributions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list contributions: %w", err)
	}
	defer rows.Close()

	var out []Contribution
	for rows.Next() {
		var c Contribution
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.RestaurantID,
			&c.MenuImageID,
			&c.ContributionType,
			&c.ContributionDate,
			&c.PointsEarned,
			&c.MealSession,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan contribution: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
