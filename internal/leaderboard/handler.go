package leaderboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/apperr"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/middleware"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
	log      *zap.Logger
}

func NewHandler(service *Service, validate *validator.Validate, log *zap.Logger) *Handler {
	return &Handler{service: service, validate: validate, log: log}
}

type getQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1"`
}

// GET /leaderboard
func (h *Handler) Get(c *gin.Context) {
	var q getQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperr.Respond(c, h.log, apperr.Validation("limit must be a positive integer", nil))
		return
	}
	if err := h.validate.Struct(q); err != nil {
		apperr.Respond(c, h.log, apperr.FromValidation("limit must be a positive integer", err))
		return
	}

	userID, _ := middleware.UserID(c)

	board, err := h.service.Get(c.Request.Context(), q.Limit, userID)
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, board)
}

// POST /admin/leaderboard/recompute
func (h *Handler) Recompute(c *gin.Context) {
	n, err := h.service.Recompute(c.Request.Context())
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"entries": n,
	})
}
