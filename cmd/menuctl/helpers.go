package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/config"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/db"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/logger"
)

type env struct {
	cfg  *config.Config
	pool *pgxpool.Pool
	log  *zap.Logger
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if verbose {
		return logger.New("development")
	}
	return logger.New(cfg.Env)
}

// withDB loads configuration, connects and migrates before run.
func withDB(ctx context.Context, run func(context.Context, *env) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if databaseURL != "" {
		cfg.Database.URL = databaseURL
	}
	if err := cfg.Require("DATABASE_URL"); err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	pool, err := db.ConnectPostgres(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, log); err != nil {
		return err
	}
	return run(ctx, &env{cfg: cfg, pool: pool, log: log})
}
