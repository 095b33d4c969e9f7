package leaderboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const entryColumns = `
	l.id,
	l.user_id,
	l.rank_position,
	l.total_karma,
	l.updated_at,
	p.display_name,
	p.avatar_url
`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	if err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.RankPosition,
		&e.TotalKarma,
		&e.UpdatedAt,
		&e.DisplayName,
		&e.AvatarURL,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PostgresRepository) Top(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+entryColumns+`
		FROM leaderboard l
		JOIN user_profiles p ON p.id = l.user_id
		ORDER BY l.rank_position ASC NULLS LAST, l.total_karma DESC, p.display_name ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ForProfile(ctx context.Context, profileID string) (*Entry, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+entryColumns+`
		FROM leaderboard l
		JOIN user_profiles p ON p.id = l.user_id
		WHERE l.user_id = $1
	`, profileID)

	e, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query leaderboard entry: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) Recompute(ctx context.Context) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	n, err := RecomputeTx(ctx, tx)
	if err != nil {
		return 0, err
	}
	return n, tx.Commit(ctx)
}

// Execer is satisfied by pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// recomputeLockKey serializes RecomputeTx so every run reads all
// contributions committed before it.
const recomputeLockKey int64 = 0x6d656e756c62

// RecomputeTx refreshes karma totals and dense ranks. Callers that append a
// contribution run it in the same transaction so readers never observe ranks
// that disagree with the summed points. q must be a transaction: the lock it
// takes is released on commit or rollback.
func RecomputeTx(ctx context.Context, q Execer) (int, error) {
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, recomputeLockKey); err != nil {
		return 0, fmt.Errorf("lock leaderboard: %w", err)
	}

	if _, err := q.Exec(ctx, `
		UPDATE user_profiles p
		SET karma_points = t.total, updated_at = now()
		FROM (
			SELECT p2.id, COALESCE(SUM(dc.points_earned), 0)::int AS total
			FROM user_profiles p2
			LEFT JOIN daily_contributions dc ON dc.user_id = p2.id
			GROUP BY p2.id
		) t
		WHERE p.id = t.id AND p.karma_points <> t.total
	`); err != nil {
		return 0, fmt.Errorf("refresh karma: %w", err)
	}

	tag, err := q.Exec(ctx, `
		WITH ranked AS (
			SELECT
				id AS user_id,
				karma_points AS total,
				DENSE_RANK() OVER (ORDER BY karma_points DESC)::int AS rnk
			FROM user_profiles
		)
		INSERT INTO leaderboard (user_id, total_karma, rank_position, updated_at)
		SELECT user_id, total, rnk, now() FROM ranked
		ON CONFLICT (user_id) DO UPDATE SET
			total_karma = EXCLUDED.total_karma,
			rank_position = EXCLUDED.rank_position,
			updated_at = now()
		WHERE leaderboard.total_karma IS DISTINCT FROM EXCLUDED.total_karma
		   OR leaderboard.rank_position IS DISTINCT FROM EXCLUDED.rank_position
	`)
	if err != nil {
		return 0, fmt.Errorf("rank leaderboard: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
