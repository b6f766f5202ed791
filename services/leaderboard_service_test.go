package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthChallengeAPI/internal/apperrors"
	"healthChallengeAPI/internal/types/leaderboard"
	"healthChallengeAPI/internal/types/metrics"
)

func seedBoardRow(docs *memStore, week string, e *leaderboard.LeaderboardUser) {
	if docs.boards[week] == nil {
		docs.boards[week] = make(map[string]*leaderboard.LeaderboardUser)
	}
	docs.boards[week][e.ID] = e
}

func TestUpdateLeaderboardWritesCallerRow(t *testing.T) {
	docs := newMemStore()
	gateway := &stubGateway{totals: map[metrics.Type]float64{
		metrics.TypeSteps:    12000,
		metrics.TypeCalories: 800,
		metrics.TypeDistance: 9.5,
	}}

	svc := NewLeaderboardService(docs, gateway)
	svc.now = fixedNow

	u := seedUser(t, docs, "user-1")
	u.Points = 250
	require.NoError(t, docs.SaveUser(context.Background(), u))

	board, err := svc.UpdateLeaderboard(context.Background(), "user-1", "steps")
	require.NoError(t, err)

	assert.Equal(t, "04-03-2024-leaderboard", board.Week)
	assert.Equal(t, "steps", board.Metric)
	assert.Equal(t, 1, board.TotalUsers)
	require.Len(t, board.Entries, 1)

	row := board.Entries[0]
	assert.Equal(t, 12000.0, row.Steps)
	assert.Equal(t, 800.0, row.Calories)
	assert.Equal(t, 9.5, row.Distance)
	assert.Equal(t, 250, row.Points)
	assert.Equal(t, 1, row.Rank)
	require.NotNil(t, board.UserPosition)
	assert.Equal(t, "user-1", board.UserPosition.ID)
}

func TestUpdateLeaderboardOverwritesRow(t *testing.T) {
	docs := newMemStore()
	gateway := &stubGateway{totals: map[metrics.Type]float64{metrics.TypeSteps: 3000}}

	svc := NewLeaderboardService(docs, gateway)
	svc.now = fixedNow

	seedUser(t, docs, "user-1")

	_, err := svc.UpdateLeaderboard(context.Background(), "user-1", "steps")
	require.NoError(t, err)

	gateway.totals[metrics.TypeSteps] = 7500
	board, err := svc.UpdateLeaderboard(context.Background(), "user-1", "steps")
	require.NoError(t, err)

	assert.Equal(t, 1, board.TotalUsers, "same user writes the same row")
	assert.Equal(t, 7500.0, board.Entries[0].Steps)
}

func TestUpdateLeaderboardRanking(t *testing.T) {
	docs := newMemStore()
	gateway := &stubGateway{totals: map[metrics.Type]float64{metrics.TypeSteps: 100}}

	svc := NewLeaderboardService(docs, gateway)
	svc.now = fixedNow

	seedUser(t, docs, "user-low")

	week := "04-03-2024-leaderboard"
	for i := 0; i < 12; i++ {
		seedBoardRow(docs, week, &leaderboard.LeaderboardUser{
			ID:    fmt.Sprintf("rival-%02d", i),
			Steps: float64(1000 * (i + 1)),
		})
	}

	board, err := svc.UpdateLeaderboard(context.Background(), "user-low", "steps")
	require.NoError(t, err)

	assert.Equal(t, 13, board.TotalUsers)
	require.Len(t, board.Entries, 10)

	assert.Equal(t, "rival-11", board.Entries[0].ID)
	assert.Equal(t, 12000.0, board.Entries[0].Steps)
	for i, e := range board.Entries {
		assert.Equal(t, i+1, e.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, board.Entries[i-1].Steps, e.Steps)
		}
	}

	// the caller sits last, outside the returned page, but still gets a rank
	require.NotNil(t, board.UserPosition)
	assert.Equal(t, "user-low", board.UserPosition.ID)
	assert.Equal(t, 13, board.UserPosition.Rank)
}

func TestUpdateLeaderboardTieBreaksByUserID(t *testing.T) {
	docs := newMemStore()
	gateway := &stubGateway{totals: map[metrics.Type]float64{metrics.TypeSteps: 5000}}

	svc := NewLeaderboardService(docs, gateway)
	svc.now = fixedNow

	seedUser(t, docs, "user-b")

	week := "04-03-2024-leaderboard"
	seedBoardRow(docs, week, &leaderboard.LeaderboardUser{ID: "user-c", Steps: 5000})
	seedBoardRow(docs, week, &leaderboard.LeaderboardUser{ID: "user-a", Steps: 5000})

	for i := 0; i < 5; i++ {
		board, err := svc.UpdateLeaderboard(context.Background(), "user-b", "steps")
		require.NoError(t, err)
		require.Len(t, board.Entries, 3)
		assert.Equal(t, "user-a", board.Entries[0].ID)
		assert.Equal(t, "user-b", board.Entries[1].ID)
		assert.Equal(t, "user-c", board.Entries[2].ID)
	}
}

func TestUpdateLeaderboardRanksByPoints(t *testing.T) {
	docs := newMemStore()
	gateway := &stubGateway{totals: map[metrics.Type]float64{metrics.TypeSteps: 100}}

	svc := NewLeaderboardService(docs, gateway)
	svc.now = fixedNow

	u := seedUser(t, docs, "user-1")
	u.Points = 900
	require.NoError(t, docs.SaveUser(context.Background(), u))

	week := "04-03-2024-leaderboard"
	seedBoardRow(docs, week, &leaderboard.LeaderboardUser{ID: "rival", Steps: 99999, Points: 100})

	board, err := svc.UpdateLeaderboard(context.Background(), "user-1", "points")
	require.NoError(t, err)
	assert.Equal(t, "user-1", board.Entries[0].ID)
	assert.Equal(t, "rival", board.Entries[1].ID)
}

func TestUpdateLeaderboardUnknownMetric(t *testing.T) {
	docs := newMemStore()
	svc := NewLeaderboardService(docs, &stubGateway{})

	_, err := svc.UpdateLeaderboard(context.Background(), "user-1", "elevation")
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedInterval)
}

func TestUpdateLeaderboardGatewayFailurePreservesStoredRow(t *testing.T) {
	docs := newMemStore()
	gateway := &stubGateway{totals: map[metrics.Type]float64{metrics.TypeSteps: 8000}}

	svc := NewLeaderboardService(docs, gateway)
	svc.now = fixedNow

	seedUser(t, docs, "user-1")

	_, err := svc.UpdateLeaderboard(context.Background(), "user-1", "steps")
	require.NoError(t, err)

	gateway.err = fmt.Errorf("health store down")
	_, err = svc.UpdateLeaderboard(context.Background(), "user-1", "steps")
	require.Error(t, err)

	week := "04-03-2024-leaderboard"
	stored := docs.boards[week]["user-1"]
	require.NotNil(t, stored)
	assert.Equal(t, 8000.0, stored.Steps, "an outage must not zero the stored totals")
}

func TestUpdateLeaderboardNoSamplesStillListed(t *testing.T) {
	docs := newMemStore()
	gateway := &stubGateway{totals: map[metrics.Type]float64{}}

	svc := NewLeaderboardService(docs, gateway)
	svc.now = fixedNow

	seedUser(t, docs, "user-1")

	board, err := svc.UpdateLeaderboard(context.Background(), "user-1", "steps")
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	assert.Zero(t, board.Entries[0].Steps)
}
