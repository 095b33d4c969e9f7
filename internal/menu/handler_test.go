package menu

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/core"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/middleware"
)

type stubProfiles map[string]*core.Identity

func (s stubProfiles) LookupIdentity(_ context.Context, externalID string) (*core.Identity, error) {
	id, ok := s[externalID]
	if !ok {
		return nil, core.ErrNoProfile
	}
	return id, nil
}

// asUser stands in for the auth middleware.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.ContextUserID, userID)
		}
		c.Next()
	}
}

func newTestRouter(f *fixture, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	profiles := stubProfiles{
		"user-1":  {ProfileID: "profile-1", ExternalID: "user-1", DisplayName: "Asha"},
		"admin-1": admin,
	}
	v := validator.New()
	h := NewHandler(f.svc, profiles, v, zap.NewNop())
	ah := NewAdminHandler(f.svc, v, zap.NewNop())

	r := gin.New()
	r.GET("/restaurants/:slug/menus", h.Menus)
	r.POST("/upload", asUser(userID), h.Upload)
	r.DELETE("/admin/images/:id", asUser(userID), middleware.RequireAdmin(profiles, zap.NewNop()), ah.DeleteImage)
	return r
}

func multipartUpload(t *testing.T, fields map[string]string, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHandler_Menus(t *testing.T) {
	f := newFixture(t)
	f.seedDone(t, &MenuImage{PhotoTakenAt: at(13, 0)}, "thali")
	r := newTestRouter(f, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/restaurants/magna/menus?group=meal", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Restaurant struct {
			Slug string `json:"slug"`
		} `json:"restaurant"`
		Menus []struct {
			MealPeriod string `json:"meal_period"`
			OCRResult  struct {
				Text string `json:"text"`
			} `json:"ocr_result"`
		} `json:"menus"`
		ByMeal       map[string][]json.RawMessage `json:"by_meal"`
		Availability map[string]any               `json:"availability"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "magna", body.Restaurant.Slug)
	require.Len(t, body.Menus, 1)
	assert.Equal(t, "Lunch", body.Menus[0].MealPeriod)
	assert.Equal(t, "thali", body.Menus[0].OCRResult.Text)
	assert.Len(t, body.ByMeal["Lunch"], 1)
	assert.NotNil(t, body.Availability)
}

func TestHandler_MenusErrors(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(f, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/restaurants/nowhere/menus", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Restaurant not found")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/restaurants/magna/menus?group=day", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_UploadAuthenticated(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(f, "user-1")

	req := multipartUpload(t, map[string]string{
		"restaurant_slug": "magna",
		"photo_taken_at":  "2025-03-10T08:30:00+05:30",
	}, "menu.png", pngBytes(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res UploadResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, StatusOCRPending, res.Status)
	assert.Equal(t, "Breakfast", string(res.MealPeriod))
	assert.True(t, res.ContributionRecorded)
	require.NotNil(t, res.Image.UploadedBy)
	assert.Equal(t, "profile-1", *res.Image.UploadedBy)
	assert.NotEmpty(t, res.ImageURL)
}

func TestHandler_UploadWithoutProfile(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(f, "user-without-profile")

	req := multipartUpload(t, map[string]string{"restaurant_slug": "magna"}, "menu.png", pngBytes(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var res UploadResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Image.IsAnonymous)
	assert.Equal(t, []string{"profile not found; upload stored anonymously"}, res.Warnings)
}

func TestHandler_UploadValidation(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(f, "")

	tests := []struct {
		name     string
		fields   map[string]string
		filename string
		status   int
	}{
		{"missing slug", map[string]string{}, "menu.png", http.StatusBadRequest},
		{"missing file", map[string]string{"restaurant_slug": "magna"}, "", http.StatusBadRequest},
		{"bad timestamp", map[string]string{"restaurant_slug": "magna", "photo_taken_at": "yesterday"}, "menu.png", http.StatusBadRequest},
		{"unknown restaurant", map[string]string{"restaurant_slug": "nowhere"}, "menu.png", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, multipartUpload(t, tt.fields, tt.filename, pngBytes(t)))
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestHandler_AdminDelete(t *testing.T) {
	f := newFixture(t)
	img := f.seedDone(t, &MenuImage{}, "old")

	r := newTestRouter(f, "admin-1")
	req := httptest.NewRequest(http.MethodDelete, "/admin/images/"+img.ID, strings.NewReader(`{"reason":"duplicate"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res DeleteResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, img.ID, res.ImageID)
	assert.Equal(t, "duplicate", res.Reason)
}

func TestHandler_AdminDeleteNoBody(t *testing.T) {
	f := newFixture(t)
	img := f.seedDone(t, &MenuImage{}, "old")

	r := newTestRouter(f, "admin-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/images/"+img.ID, nil))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestHandler_AdminDeleteForbidden(t *testing.T) {
	f := newFixture(t)
	img := f.seedDone(t, &MenuImage{}, "old")

	r := newTestRouter(f, "user-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/images/"+img.ID, nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Forbidden: Admin access required")

	_, err := f.repo.Get(context.Background(), img.ID)
	assert.NoError(t, err)
}

func TestHandler_AdminDeleteInvalidID(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(f, "admin-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/images/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
