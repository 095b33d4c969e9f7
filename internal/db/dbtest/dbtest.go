// Package dbtest opens a migrated, empty Postgres for repository tests.
// Tests are skipped unless TEST_DATABASE_URL points at a disposable database.
package dbtest

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/config"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/db"
)

// packageLockKey keeps test packages run in parallel by `go test ./...`
// from truncating each other's tables.
const packageLockKey int64 = 0x64627465_7374

// Open returns a pool on a freshly truncated schema. The pool and the
// cross-package lock are released when t finishes.
func Open(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := db.ConnectPostgres(ctx, config.DatabaseConfig{URL: dsn, MaxConns: 8}, zap.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		t.Fatalf("acquire: %v", err)
	}
	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, packageLockKey); err != nil {
		conn.Release()
		pool.Close()
		t.Fatalf("lock: %v", err)
	}

	t.Cleanup(func() {
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, packageLockKey)
		conn.Release()
		pool.Close()
	})

	if err := db.ApplyMigrations(ctx, pool, zap.NewNop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if _, err := pool.Exec(ctx, `
		TRUNCATE
			admin_activity_log,
			leaderboard,
			daily_contributions,
			ocr_results,
			menu_images,
			user_profiles,
			restaurants
		CASCADE
	`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	return pool
}

// Restaurant inserts a restaurant and returns its id.
func Restaurant(t *testing.T, pool *pgxpool.Pool, slug string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(), `
		INSERT INTO restaurants (name, slug) VALUES ($1, $1) RETURNING id
	`, slug).Scan(&id)
	if err != nil {
		t.Fatalf("insert restaurant: %v", err)
	}
	return id
}

// Profile inserts a profile with its empty leaderboard row and returns its id.
func Profile(t *testing.T, pool *pgxpool.Pool, userID, displayName string) string {
	t.Helper()
	ctx := context.Background()
	var id string
	err := pool.QueryRow(ctx, `
		INSERT INTO user_profiles (user_id, display_name) VALUES ($1, $2) RETURNING id
	`, userID, displayName).Scan(&id)
	if err != nil {
		t.Fatalf("insert profile: %v", err)
	}
	if _, err := pool.Exec(ctx, `INSERT INTO leaderboard (user_id, total_karma) VALUES ($1, 0)`, id); err != nil {
		t.Fatalf("insert leaderboard row: %v", err)
	}
	return id
}
