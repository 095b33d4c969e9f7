package leaderboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/core"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/middleware"
)

type stubProfiles map[string]string // external id -> profile id

func (s stubProfiles) LookupIdentity(_ context.Context, externalID string) (*core.Identity, error) {
	pid, ok := s[externalID]
	if !ok {
		return nil, core.ErrNoProfile
	}
	return &core.Identity{ProfileID: pid, ExternalID: externalID}, nil
}

func seeded(t *testing.T) (*InMemoryRepository, stubProfiles) {
	t.Helper()
	repo := NewInMemoryRepository()
	repo.Put(Entry{UserID: "p1", DisplayName: "Asha", TotalKarma: 50})
	repo.Put(Entry{UserID: "p2", DisplayName: "Bala", TotalKarma: 30})
	repo.Put(Entry{UserID: "p3", DisplayName: "Chen", TotalKarma: 10})
	repo.Put(Entry{UserID: "p4", DisplayName: "Dev", TotalKarma: 30})

	_, err := repo.Recompute(context.Background())
	require.NoError(t, err)

	return repo, stubProfiles{"user_a": "p1", "user_c": "p3", "user_x": "p-missing"}
}

func TestRecompute_DenseRanks(t *testing.T) {
	repo, _ := seeded(t)

	top, err := repo.Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, top, 4)

	ranks := map[string]int{}
	for _, e := range top {
		ranks[e.UserID] = *e.RankPosition
	}
	assert.Equal(t, map[string]int{"p1": 1, "p2": 2, "p4": 2, "p3": 3}, ranks)
	assert.Equal(t, "p1", top[0].UserID)
	assert.Equal(t, "p3", top[3].UserID)
}

func TestRecompute_CountsOnlyChangedEntries(t *testing.T) {
	repo, _ := seeded(t)

	n, err := repo.Recompute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	repo.AddPoints("p3", 100)
	n, err = repo.Recompute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n, "p3 moves to the top and everyone else drops one rank")
}

type recordingExec struct {
	statements []string
}

func (r *recordingExec) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	r.statements = append(r.statements, sql)
	return pgconn.NewCommandTag("INSERT 0 3"), nil
}

func TestRecomputeTx_SerializesBeforeReading(t *testing.T) {
	q := &recordingExec{}
	n, err := RecomputeTx(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.Len(t, q.statements, 3)
	assert.Contains(t, q.statements[0], "pg_advisory_xact_lock")
	assert.True(t, strings.Contains(q.statements[1], "UPDATE user_profiles"))
	assert.Contains(t, q.statements[2], "IS DISTINCT FROM")
}

func TestService_GetIncludesCallerOutsideWindow(t *testing.T) {
	repo, profiles := seeded(t)
	svc := NewService(repo, profiles, 100, 500, zap.NewNop())

	board, err := svc.Get(context.Background(), 2, "user_c")
	require.NoError(t, err)

	assert.Len(t, board.Entries, 2)
	require.NotNil(t, board.UserEntry)
	assert.Equal(t, "p3", board.UserEntry.UserID)
	assert.Equal(t, 3, *board.UserEntry.RankPosition)
}

func TestService_GetAnonymousAndUnknownCaller(t *testing.T) {
	repo, profiles := seeded(t)
	svc := NewService(repo, profiles, 100, 500, zap.NewNop())

	board, err := svc.Get(context.Background(), 0, "")
	require.NoError(t, err)
	assert.Len(t, board.Entries, 4)
	assert.Nil(t, board.UserEntry)

	board, err = svc.Get(context.Background(), 0, "not_onboarded")
	require.NoError(t, err)
	assert.Nil(t, board.UserEntry)

	board, err = svc.Get(context.Background(), 0, "user_x")
	require.NoError(t, err)
	assert.Nil(t, board.UserEntry)
}

func TestService_GetClampsLimit(t *testing.T) {
	repo, profiles := seeded(t)
	svc := NewService(repo, profiles, 2, 3, zap.NewNop())

	board, err := svc.Get(context.Background(), 0, "")
	require.NoError(t, err)
	assert.Len(t, board.Entries, 2)

	board, err = svc.Get(context.Background(), 1000, "")
	require.NoError(t, err)
	assert.Len(t, board.Entries, 3)
}

func TestUnrankedEntriesSortLast(t *testing.T) {
	repo, _ := seeded(t)
	repo.Put(Entry{UserID: "p5", DisplayName: "Eve", TotalKarma: 999})

	top, err := repo.Top(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "p5", top[len(top)-1].UserID)
}

func TestHandler_Get(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo, profiles := seeded(t)
	h := NewHandler(NewService(repo, profiles, 100, 500, zap.NewNop()), validator.New(), zap.NewNop())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "user_a")
		c.Next()
	})
	r.GET("/leaderboard", h.Get)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaderboard?limit=1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body Board
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Entries, 1)
	require.NotNil(t, body.UserEntry)
	assert.Equal(t, "p1", body.UserEntry.UserID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaderboard?limit=-3", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaderboard?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
