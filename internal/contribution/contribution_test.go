package contribution

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/apperr"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/core"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/leaderboard"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/mealtime"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/middleware"
)

func strptr(s string) *string { return &s }

func newService(repo Repository) *Service {
	svc := NewService(repo, mealtime.NewClassifier(time.UTC), 10, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 1, 1, 14, 0, 0, 0, time.UTC) }
	return svc
}

func TestRecordUpload_AppendsWithMealSession(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := newService(repo)

	recorded, err := svc.RecordUpload(context.Background(), Upload{
		ProfileID:    strptr("p1"),
		RestaurantID: "r1",
		MenuImageID:  "img1",
		At:           time.Date(2025, 1, 1, 7, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, recorded)

	list, err := svc.ListForProfile(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	c := list[0]
	assert.Equal(t, TypeUpload, c.ContributionType)
	assert.Equal(t, 10, c.PointsEarned)
	assert.Equal(t, mealtime.Breakfast, c.MealSession)
	assert.Equal(t, "2025-01-01", c.ContributionDate)
	assert.Equal(t, "img1", *c.MenuImageID)
}

func TestRecordUpload_DateFollowsPhotoTime(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	repo := NewInMemoryRepository()
	svc := NewService(repo, mealtime.NewClassifier(ist), 10, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 3, 11, 8, 0, 0, 0, ist) }

	_, err := svc.RecordUpload(context.Background(), Upload{
		ProfileID:    strptr("p1"),
		RestaurantID: "r1",
		MenuImageID:  "img1",
		At:           time.Date(2025, 3, 10, 20, 30, 0, 0, ist),
	})
	require.NoError(t, err)

	list, err := svc.ListForProfile(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2025-03-10", list[0].ContributionDate)
	assert.Equal(t, mealtime.Dinner, list[0].MealSession)
}

func TestRecordUpload_ZeroTimeUsesNow(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := newService(repo)

	_, err := svc.RecordUpload(context.Background(), Upload{ProfileID: strptr("p1"), MenuImageID: "img1"})
	require.NoError(t, err)

	list, err := svc.ListForProfile(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2025-01-01", list[0].ContributionDate)
	assert.Equal(t, mealtime.Lunch, list[0].MealSession)
}

func TestRecordUpload_SkipsAnonymous(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := newService(repo)

	recorded, err := svc.RecordUpload(context.Background(), Upload{ProfileID: strptr("p1"), Anonymous: true})
	require.NoError(t, err)
	assert.False(t, recorded)

	recorded, err = svc.RecordUpload(context.Background(), Upload{})
	require.NoError(t, err)
	assert.False(t, recorded)

	list, _ := svc.ListForProfile(context.Background(), "p1")
	assert.Empty(t, list)
}

func TestRecordUpload_FailureIsDatabaseKind(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.Err = errors.New("write failed")
	svc := newService(repo)

	recorded, err := svc.RecordUpload(context.Background(), Upload{ProfileID: strptr("p1"), MenuImageID: "img"})
	assert.False(t, recorded)
	assert.Equal(t, apperr.KindDatabase, apperr.KindOf(err))
}

func TestRecordUpload_RanksReflectPoints(t *testing.T) {
	board := leaderboard.NewInMemoryRepository()
	repo := NewInMemoryRepository()
	repo.OnAppend = func(c Contribution) {
		board.AddPoints(c.UserID, c.PointsEarned)
		_, _ = board.Recompute(context.Background())
	}
	svc := newService(repo)
	ctx := context.Background()

	for _, pid := range []string{"p1", "p2", "p2"} {
		_, err := svc.RecordUpload(ctx, Upload{ProfileID: strptr(pid), MenuImageID: "img"})
		require.NoError(t, err)
	}

	top, err := board.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "p2", top[0].UserID)
	assert.Equal(t, 20, top[0].TotalKarma)
	assert.Equal(t, 1, *top[0].RankPosition)
	assert.Equal(t, 2, *top[1].RankPosition)
}

func TestListForProfile_NewestFirst(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := newService(repo)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := svc.RecordUpload(ctx, Upload{ProfileID: strptr("p1"), MenuImageID: id})
		require.NoError(t, err)
	}

	list, err := svc.ListForProfile(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", *list[0].MenuImageID)
	assert.Equal(t, "a", *list[2].MenuImageID)
}

// --------------------------------------------------
// Handler
// --------------------------------------------------

type stubProfiles map[string]string

func (s stubProfiles) LookupIdentity(_ context.Context, externalID string) (*core.Identity, error) {
	pid, ok := s[externalID]
	if !ok {
		return nil, core.ErrNoProfile
	}
	return &core.Identity{ProfileID: pid, ExternalID: externalID}, nil
}

func newTestRouter(svc *Service, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc, stubProfiles{"user_1": "p1"}, zap.NewNop())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.ContextUserID, userID)
		}
		c.Next()
	})
	r.GET("/contributions", h.List)
	return r
}

func TestHandler_List(t *testing.T) {
	svc := newService(NewInMemoryRepository())
	_, err := svc.RecordUpload(context.Background(), Upload{ProfileID: strptr("p1"), MenuImageID: "img"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	newTestRouter(svc, "user_1").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/contributions", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Contributions []Contribution `json:"contributions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Contributions, 1)
}

func TestHandler_ListErrors(t *testing.T) {
	svc := newService(NewInMemoryRepository())

	w := httptest.NewRecorder()
	newTestRouter(svc, "").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/contributions", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	newTestRouter(svc, "user_without_profile").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/contributions", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
