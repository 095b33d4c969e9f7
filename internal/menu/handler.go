package menu

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/apperr"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/core"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/middleware"
)

type Handler struct {
	service  *Service
	profiles core.ProfileReader
	validate *validator.Validate
	log      *zap.Logger
}

type AdminHandler struct {
	service  *Service
	validate *validator.Validate
	log      *zap.Logger
}

func NewHandler(
	service *Service,
	profiles core.ProfileReader,
	validate *validator.Validate,
	log *zap.Logger,
) *Handler {
	return &Handler{service: service, profiles: profiles, validate: validate, log: log}
}

func NewAdminHandler(service *Service, validate *validator.Validate, log *zap.Logger) *AdminHandler {
	return &AdminHandler{service: service, validate: validate, log: log}
}

// --------------------------------------------------
// GET /restaurants/:slug/menus
// --------------------------------------------------
func (h *Handler) Menus(c *gin.Context) {
	slug := c.Param("slug")
	if err := h.validate.Var(slug, "required,max=64"); err != nil {
		apperr.Respond(c, h.log, apperr.Validation("invalid slug", nil))
		return
	}

	group := c.Query("group")
	if group != "" && group != "meal" {
		apperr.Respond(c, h.log, apperr.Validation("group must be 'meal'", nil))
		return
	}

	res, err := h.service.FreshMenus(c.Request.Context(), slug, group == "meal")
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

type uploadForm struct {
	RestaurantSlug       string `form:"restaurant_slug" validate:"required,max=64"`
	PhotoTakenAt         string `form:"photo_taken_at" validate:"omitempty,max=40"`
	Anonymous            bool   `form:"anonymous"`
	AnonymousDisplayName string `form:"anonymous_display_name" validate:"omitempty,max=50"`
}

// --------------------------------------------------
// POST /upload (multipart)
// --------------------------------------------------
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.service.MaxUploadBytes()+1<<20)

	var form uploadForm
	if err := c.ShouldBind(&form); err != nil {
		apperr.Respond(c, h.log, apperr.Validation("invalid upload form", nil))
		return
	}
	if err := h.validate.Struct(form); err != nil {
		apperr.Respond(c, h.log, apperr.FromValidation("invalid upload form", err))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		apperr.Respond(c, h.log, apperr.Validation("file is required", nil))
		return
	}

	in := UploadInput{
		RestaurantSlug:       form.RestaurantSlug,
		Filename:             header.Filename,
		Size:                 header.Size,
		Anonymous:            form.Anonymous,
		AnonymousDisplayName: form.AnonymousDisplayName,
	}

	if form.PhotoTakenAt != "" {
		t, ok := h.service.Classifier().Parse(form.PhotoTakenAt)
		if !ok {
			apperr.Respond(c, h.log, apperr.Validation("photo_taken_at must be an ISO-8601 timestamp", nil))
			return
		}
		in.PhotoTakenAt = &t
	}

	if userID, ok := middleware.UserID(c); ok {
		identity, err := h.profiles.LookupIdentity(c.Request.Context(), userID)
		switch {
		case errors.Is(err, core.ErrNoProfile):
			in.CallerWithoutProfile = true
		case err != nil:
			apperr.Respond(c, h.log, apperr.Database("failed to load profile", err))
			return
		default:
			in.Uploader = identity
		}
	}

	file, err := header.Open()
	if err != nil {
		apperr.Respond(c, h.log, apperr.Validation("failed to read file", nil))
		return
	}
	defer file.Close()
	in.File = file

	res, err := h.service.Upload(c.Request.Context(), in)
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

type deleteRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// --------------------------------------------------
// DELETE /admin/images/:id
// --------------------------------------------------
func (h *AdminHandler) DeleteImage(c *gin.Context) {
	imageID := c.Param("id")
	if err := h.validate.Var(imageID, "required,uuid"); err != nil {
		apperr.Respond(c, h.log, apperr.Validation("Image ID is required", nil))
		return
	}

	var req deleteRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			apperr.Respond(c, h.log, apperr.Validation("invalid request body", nil))
			return
		}
	}
	if err := h.validate.Struct(req); err != nil {
		apperr.Respond(c, h.log, apperr.FromValidation("invalid request body", err))
		return
	}

	admin, ok := middleware.Identity(c)
	if !ok {
		apperr.Respond(c, h.log, apperr.Forbidden("Forbidden: Admin access required"))
		return
	}

	res, err := h.service.DeleteImage(c.Request.Context(), imageID, admin, req.Reason)
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
