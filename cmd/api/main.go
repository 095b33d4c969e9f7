package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/audit"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/config"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/contribution"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/db"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/leaderboard"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/logger"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/mealtime"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/menu"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/profile"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/restaurant"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/router"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/storage"
)

func main() {
	// ───────────────────────── ENV ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌ config load failed:", err)
		os.Exit(1)
	}

	log := logger.Must(cfg.Env)
	defer log.Sync()

	required := append([]string{"JWT_SECRET", "DATABASE_URL"}, config.StorageKeys...)
	if err := cfg.Require(required...); err != nil {
		log.Fatal("❌ missing configuration", zap.Error(err))
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ───────────────────────── DB ─────────────────────────
	pool, err := db.ConnectPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("❌ database connect failed", zap.Error(err))
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := db.ApplyMigrations(ctx, pool, log); err != nil {
			log.Fatal("❌ migrations failed", zap.Error(err))
		}
	}

	// ───────────────────────── STORAGE ─────────────────────────
	r2Client, err := storage.NewR2Client(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("❌ R2 init failed", zap.Error(err))
	}

	// ───────────────────────── SERVICES ─────────────────────────
	validate := validator.New()
	classifier := mealtime.NewClassifier(cfg.App.Location)

	restaurantService := restaurant.NewService(restaurant.NewPostgresRepository(pool), log)
	profileService := profile.NewService(profile.NewPostgresRepository(pool), log)

	contributionService := contribution.NewService(
		contribution.NewPostgresRepository(pool),
		classifier,
		cfg.App.KarmaBasePoints,
		log,
	)

	leaderboardService := leaderboard.NewService(
		leaderboard.NewPostgresRepository(pool),
		profileService,
		cfg.Leaderboard.DefaultLimit,
		cfg.Leaderboard.MaxLimit,
		log,
	)

	menuService := menu.NewService(
		menu.NewPostgresRepository(pool),
		restaurantService,
		r2Client,
		contributionService,
		audit.NewPostgresRecorder(pool),
		menu.Settings{
			Classifier:     classifier,
			FreshLimit:     cfg.App.FreshMenuLimit,
			MaxUploadBytes: cfg.App.MaxUploadBytes,
		},
		log,
	)

	// ───────────────────────── ROUTER ─────────────────────────
	r := router.NewRouter(router.Deps{
		JWTSecret:      cfg.Auth.JWTSecret,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Profiles:       profileService,
		Log:            log,

		Restaurants:   restaurant.NewHandler(restaurantService, validate, log),
		Menus:         menu.NewHandler(menuService, profileService, validate, log),
		AdminMenus:    menu.NewAdminHandler(menuService, validate, log),
		Profile:       profile.NewHandler(profileService, validate, log),
		Contributions: contribution.NewHandler(contributionService, profileService, log),
		Leaderboard:   leaderboard.NewHandler(leaderboardService, validate, log),
	})

	// ───────────────────────── START ─────────────────────────
	srv := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Info("🚀 API running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("❌ server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
