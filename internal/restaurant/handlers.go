package restaurant

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/apperr"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
	log      *zap.Logger
}

func NewHandler(service *Service, validate *validator.Validate, log *zap.Logger) *Handler {
	return &Handler{service: service, validate: validate, log: log}
}

type listQuery struct {
	Lat *float64 `form:"lat" validate:"required_with=Lng,omitempty,latitude"`
	Lng *float64 `form:"lng" validate:"required_with=Lat,omitempty,longitude"`
}

// --------------------------------------------------
// GET /restaurants
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperr.Respond(c, h.log, apperr.Validation("invalid query parameters", nil))
		return
	}
	if err := h.validate.Struct(q); err != nil {
		apperr.Respond(c, h.log, apperr.FromValidation("invalid coordinates", err))
		return
	}

	var origin *Point
	if q.Lat != nil && q.Lng != nil {
		origin = &Point{Lat: *q.Lat, Lng: *q.Lng}
	}

	list, err := h.service.List(c.Request.Context(), origin)
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"restaurants": list})
}

// --------------------------------------------------
// GET /restaurants/:slug/info
// --------------------------------------------------
func (h *Handler) Info(c *gin.Context) {
	slug := c.Param("slug")
	if err := h.validate.Var(slug, "required,max=64"); err != nil {
		apperr.Respond(c, h.log, apperr.Validation("invalid slug", nil))
		return
	}

	r, err := h.service.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"restaurant": r})
}
