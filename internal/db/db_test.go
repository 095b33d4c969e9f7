package db

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/config"
)

func TestMigrations_VersionsAreSequential(t *testing.T) {
	for i, m := range migrations {
		if m.version != i+1 {
			t.Fatalf("migration %q has version %d, expected %d", m.name, m.version, i+1)
		}
		if strings.TrimSpace(m.sql) == "" {
			t.Fatalf("migration %d has empty sql", m.version)
		}
	}
}

func TestMigrations_DeclareCoreTables(t *testing.T) {
	var all strings.Builder
	for _, m := range migrations {
		all.WriteString(m.sql)
	}

	for _, table := range []string{
		"restaurants",
		"menu_images",
		"ocr_results",
		"user_profiles",
		"daily_contributions",
		"leaderboard",
		"admin_activity_log",
	} {
		if !strings.Contains(all.String(), "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Fatalf("table %s not declared", table)
		}
	}
}

func TestConnectPostgres_MissingURL(t *testing.T) {
	_, err := ConnectPostgres(context.Background(), config.DatabaseConfig{}, zap.NewNop())
	if err == nil {
		t.Fatal("expected error when DATABASE_URL is empty")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("expected 23505 to be a unique violation")
	}
	if IsUniqueViolation(errors.New("boom")) {
		t.Fatal("plain error reported as unique violation")
	}
}

// TestApplyMigrations_Idempotent needs a disposable database.
func TestApplyMigrations_Idempotent(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := ConnectPostgres(ctx, config.DatabaseConfig{URL: dsn}, zap.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if err := ApplyMigrations(ctx, pool, zap.NewNop()); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := ApplyMigrations(ctx, pool, zap.NewNop()); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != len(migrations) {
		t.Fatalf("expected %d migrations, got %d", len(migrations), count)
	}
}
