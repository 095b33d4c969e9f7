package profile

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

// --------------------------------------------------
// POST /profile
// --------------------------------------------------
func (h *Handler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		apperr.Respond(c, h.log, apperr.Unauthorized("Unauthorized"))
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, h.log, apperr.Validation("invalid request body", nil))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		apperr.Respond(c, h.log, apperr.FromValidation("invalid profile", err))
		return
	}

	p, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"profile": p})
}

// --------------------------------------------------
// GET /profile/me
// --------------------------------------------------
func (h *Handler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		apperr.Respond(c, h.log, apperr.Unauthorized("Unauthorized"))
		return
	}

	p, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": p})
}
