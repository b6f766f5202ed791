package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"healthChallengeAPI/internal/apperrors"
	"healthChallengeAPI/internal/store"
	"healthChallengeAPI/internal/types/leaderboard"
	"healthChallengeAPI/internal/types/metrics"
	"healthChallengeAPI/utils"
)

// LeaderboardService maintains the weekly-rotating leaderboard. Each ISO week
// gets its own collection named after that week's Monday; rows are fully
// overwritten per update, last write wins.
type LeaderboardService struct {
	store   store.DocumentStore
	gateway MetricsGateway
	now     func() time.Time
}

func NewLeaderboardService(docStore store.DocumentStore, gateway MetricsGateway) *LeaderboardService {
	return &LeaderboardService{
		store:   docStore,
		gateway: gateway,
		now:     time.Now,
	}
}

// UpdateLeaderboard recomputes the caller's totals for the current ISO week,
// overwrites their row in the week's collection, and returns the top 10
// ranking by the requested metric. The caller's own row rides along when
// they place outside the top 10.
func (s *LeaderboardService) UpdateLeaderboard(ctx context.Context, userID, rankMetric string) (*leaderboard.Leaderboard, error) {
	value, err := rankValue(rankMetric)
	if err != nil {
		return nil, err
	}

	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	weekStart := utils.WeekStart(now)
	week := utils.WeeklyCollection(now)

	entry := &leaderboard.LeaderboardUser{
		ID:       u.ID,
		Username: u.Username,
		Avatar:   u.Avatar,
		Points:   u.Points,
	}
	if entry.Steps, err = s.weekTotal(ctx, userID, metrics.TypeSteps, weekStart, now); err != nil {
		return nil, err
	}
	if entry.Calories, err = s.weekTotal(ctx, userID, metrics.TypeCalories, weekStart, now); err != nil {
		return nil, err
	}
	if entry.Distance, err = s.weekTotal(ctx, userID, metrics.TypeDistance, weekStart, now); err != nil {
		return nil, err
	}

	if err := s.store.SaveLeaderboardUser(ctx, week, entry); err != nil {
		return nil, err
	}

	entries, err := s.store.ListLeaderboardUsers(ctx, week)
	if err != nil {
		return nil, err
	}

	// Descending by the selected metric; equal scores order by user id so
	// repeated computations on the same input always agree.
	sort.SliceStable(entries, func(i, j int) bool {
		vi, vj := value(entries[i]), value(entries[j])
		if vi != vj {
			return vi > vj
		}
		return entries[i].ID < entries[j].ID
	})

	var userPosition *leaderboard.LeaderboardUser
	for i, e := range entries {
		e.Rank = i + 1
		if e.ID == userID {
			userPosition = e
		}
	}

	top := entries
	if len(top) > 10 {
		top = top[:10]
	}

	return &leaderboard.Leaderboard{
		Week:         week,
		Metric:       rankMetric,
		Entries:      top,
		UserPosition: userPosition,
		TotalUsers:   len(entries),
	}, nil
}

// weekTotal treats an empty sample range as zero: a user with no synced data
// still appears on the board. Any other gateway failure aborts the update so
// a health-store outage cannot overwrite the stored row with zeros.
func (s *LeaderboardService) weekTotal(ctx context.Context, userID string, metric metrics.Type, start, end time.Time) (float64, error) {
	total, err := s.gateway.QueryTotal(ctx, userID, metric, start, end)
	if err != nil {
		if errors.Is(err, apperrors.ErrDataUnavailable) {
			return 0, nil
		}
		return 0, fmt.Errorf("weekly %s total: %w", metric, err)
	}
	return total, nil
}

func rankValue(metric string) (func(*leaderboard.LeaderboardUser) float64, error) {
	switch metric {
	case "steps":
		return func(e *leaderboard.LeaderboardUser) float64 { return e.Steps }, nil
	case "calories":
		return func(e *leaderboard.LeaderboardUser) float64 { return e.Calories }, nil
	case "distance":
		return func(e *leaderboard.LeaderboardUser) float64 { return e.Distance }, nil
	case "points":
		return func(e *leaderboard.LeaderboardUser) float64 { return float64(e.Points) }, nil
	}
	return nil, fmt.Errorf("ranking metric %q: %w", metric, apperrors.ErrUnsupportedInterval)
}
