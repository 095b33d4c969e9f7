package contribution

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/apperr"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/core"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/middleware"
)

type Handler struct {
	service  *Service
	profiles core.ProfileReader
	log      *zap.Logger
}

func NewHandler(service *Service, profiles core.ProfileReader, log *zap.Logger) *Handler {
	return &Handler{service: service, profiles: profiles, log: log}
}

// GET /contributions
func (h *Handler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		apperr.Respond(c, h.log, apperr.Unauthorized("Unauthorized"))
		return
	}

	identity, err := h.profiles.LookupIdentity(c.Request.Context(), userID)
	if errors.Is(err, core.ErrNoProfile) {
		apperr.Respond(c, h.log, apperr.NotFound("User profile not found"))
		return
	}
	if err != nil {
		apperr.Respond(c, h.log, apperr.Database("failed to fetch profile", err))
		return
	}

	list, err := h.service.ListForProfile(c.Request.Context(), identity.ProfileID)
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contributions": list})
}
