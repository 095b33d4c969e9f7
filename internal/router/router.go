package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/contribution"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/core"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/leaderboard"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/menu"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/middleware"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/profile"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/restaurant"
)

type Deps struct {
	JWTSecret      string
	AllowedOrigins []string
	Profiles       core.ProfileReader
	Log            *zap.Logger

	Restaurants   *restaurant.Handler
	Menus         *menu.Handler
	AdminMenus    *menu.AdminHandler
	Profile       *profile.Handler
	Contributions *contribution.Handler
	Leaderboard   *leaderboard.Handler
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(d.Log),
		middleware.CORS(d.AllowedOrigins),
	)

	requireAuth := middleware.AuthMiddleware(d.JWTSecret, d.Log)
	optionalAuth := middleware.OptionalAuth(d.JWTSecret, d.Log)

	// ───────────── HEALTH ─────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ───────────── RESTAURANTS (public) ─────────────
	restaurants := r.Group("/restaurants")
	{
		restaurants.GET("", d.Restaurants.List)
		restaurants.GET("/:slug/info", d.Restaurants.Info)
		restaurants.GET("/:slug/menus", d.Menus.Menus)
	}

	// ───────────── UPLOAD ─────────────
	r.POST("/upload", optionalAuth, d.Menus.Upload)

	// ───────────── PROFILE ─────────────
	profiles := r.Group("/profile")
	profiles.Use(requireAuth)
	{
		profiles.POST("", d.Profile.Create)
		profiles.GET("/me", d.Profile.Me)
	}

	// ───────────── CONTRIBUTIONS / LEADERBOARD ─────────────
	r.GET("/contributions", requireAuth, d.Contributions.List)
	r.GET("/leaderboard", optionalAuth, d.Leaderboard.Get)

	// ───────────── ADMIN ─────────────
	admin := r.Group("/admin")
	admin.Use(
		requireAuth,
		middleware.RequireAdmin(d.Profiles, d.Log),
	)
	{
		admin.DELETE("/images/:id", d.AdminMenus.DeleteImage)
		admin.POST("/leaderboard/recompute", d.Leaderboard.Recompute)
	}

	return r
}
