package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/config"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/db"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/logger"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/ocr"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌ config load failed:", err)
		os.Exit(1)
	}

	log := logger.Must(cfg.Env).Named("ocr-worker")
	defer log.Sync()

	required := append([]string{"DATABASE_URL"}, config.StorageKeys...)
	required = append(required, cfg.OCRKeys()...)
	if err := cfg.Require(required...); err != nil {
		log.Fatal("❌ missing configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("🧠 OCR worker starting", zap.String("engine", cfg.OCR.Engine))

	pool, err := db.ConnectPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("❌ database connect failed", zap.Error(err))
	}
	defer pool.Close()

	r2Client, err := storage.NewR2Client(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("❌ R2 init failed", zap.Error(err))
	}

	engine, err := ocr.NewEngine(cfg.OCR, nil)
	if err != nil {
		log.Fatal("❌ OCR engine init failed", zap.Error(err))
	}

	service := ocr.NewService(
		ocr.NewPostgresRepository(pool),
		r2Client,
		engine,
		cfg.OCR.Lease,
		cfg.OCR.Timeout,
		log,
	)

	ocr.NewWorker(service, cfg.OCR.PollInterval, log).Run(ctx)
}
