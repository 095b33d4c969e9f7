package contribution

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/db/dbtest"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/leaderboard"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/mealtime"
)

func TestPostgresRepository_ConcurrentAppendsKeepLeaderboardConsistent(t *testing.T) {
	pool := dbtest.Open(t)
	ctx := context.Background()
	repo := NewPostgresRepository(pool)
	restID := dbtest.Restaurant(t, pool, "magna")

	const users, perUser = 4, 5
	profiles := make([]string, users)
	for i := range profiles {
		profiles[i] = dbtest.Profile(t, pool, fmt.Sprintf("user-%d", i), fmt.Sprintf("User %d", i))
	}

	var wg sync.WaitGroup
	errs := make(chan error, users*(perUser+users))
	for i, pid := range profiles {
		// user i uploads perUser+i times so totals differ.
		for j := 0; j < perUser+i; j++ {
			wg.Add(1)
			go func(pid string) {
				defer wg.Done()
				rid := restID
				errs <- repo.Append(ctx, &Contribution{
					UserID:           pid,
					RestaurantID:     &rid,
					ContributionType: TypeUpload,
					ContributionDate: "2025-03-10",
					PointsEarned:     10,
					MealSession:      mealtime.Lunch,
				})
			}(pid)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	board, err := leaderboard.NewPostgresRepository(pool).Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, board, users)

	for rank, e := range board {
		want := users - 1 - rank
		assert.Equal(t, profiles[want], e.UserID)
		assert.Equal(t, (perUser+want)*10, e.TotalKarma)
		require.NotNil(t, e.RankPosition)
		assert.Equal(t, rank+1, *e.RankPosition)
	}

	var karma int
	require.NoError(t, pool.QueryRow(ctx, `SELECT karma_points FROM user_profiles WHERE id = $1`, profiles[0]).Scan(&karma))
	assert.Equal(t, perUser*10, karma)
}
