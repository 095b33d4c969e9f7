package restaurant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/apperr"
)

func ptr[T any](v T) *T { return &v }

func seededService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(NewInMemoryRepository(), zap.NewNop())

	_, err := svc.Seed(context.Background(), []SeedRestaurant{
		{Name: "Magna Food Court", Slug: "magna", Location: "Inside GEC-2", Latitude: ptr(12.2965), Longitude: ptr(76.6401)},
		{Name: "Fiesta Food Court", Slug: "fiesta", Location: "Near Gate-2", Latitude: ptr(12.2958), Longitude: ptr(76.6394)},
		{Name: "Arena Food Court", Slug: "arena", Location: "Near Multiplex"},
	})
	require.NoError(t, err)
	return svc
}

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc, validator.New(), zap.NewNop())

	r := gin.New()
	r.GET("/restaurants", h.List)
	r.GET("/restaurants/:slug/info", h.Info)
	return r
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func TestService_ListOrderedByName(t *testing.T) {
	svc := seededService(t)

	list, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "arena", list[0].Slug)
	assert.Equal(t, "fiesta", list[1].Slug)
	assert.Equal(t, "magna", list[2].Slug)
	assert.Nil(t, list[0].DistanceM)
}

func TestService_ListWithOriginComputesDistance(t *testing.T) {
	svc := seededService(t)

	list, err := svc.List(context.Background(), &Point{Lat: 12.2965, Lng: 76.6401})
	require.NoError(t, err)

	bySlug := map[string]*Restaurant{}
	for _, r := range list {
		bySlug[r.Slug] = r
	}

	require.NotNil(t, bySlug["magna"].DistanceM)
	assert.Equal(t, 0.0, *bySlug["magna"].DistanceM)
	require.NotNil(t, bySlug["fiesta"].DistanceM)
	assert.InDelta(t, 108, *bySlug["fiesta"].DistanceM, 5)
	assert.Nil(t, bySlug["arena"].DistanceM)
}

func TestService_GetBySlugUnknown(t *testing.T) {
	svc := seededService(t)

	_, err := svc.GetBySlug(context.Background(), "nope")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestService_SeedIsIdempotentOnSlug(t *testing.T) {
	svc := seededService(t)
	ctx := context.Background()

	before, _ := svc.GetBySlug(ctx, "magna")
	_, err := svc.Seed(ctx, []SeedRestaurant{{Name: "Magna Renamed", Slug: "magna"}})
	require.NoError(t, err)

	after, _ := svc.GetBySlug(ctx, "magna")
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, "Magna Renamed", after.Name)
}

func TestService_SeedRejectsBadSlug(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), zap.NewNop())

	_, err := svc.Seed(context.Background(), []SeedRestaurant{{Name: "Bad", Slug: "Bad Slug"}})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestHaversineM(t *testing.T) {
	// One degree of latitude is roughly 111.2 km.
	d := HaversineM(Point{Lat: 0, Lng: 0}, Point{Lat: 1, Lng: 0})
	assert.InDelta(t, 111195, d, 50)
}

// --------------------------------------------------
// Handlers
// --------------------------------------------------

func TestHandler_List(t *testing.T) {
	r := newTestRouter(seededService(t))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/restaurants", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Restaurants []Restaurant `json:"restaurants"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Restaurants, 3)
}

func TestHandler_ListRejectsHalfCoordinates(t *testing.T) {
	r := newTestRouter(seededService(t))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/restaurants?lat=12.3", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_InfoFoundAndMissing(t *testing.T) {
	r := newTestRouter(seededService(t))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/restaurants/magna/info", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"magna"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/restaurants/unknown/info", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Restaurant not found")
}
