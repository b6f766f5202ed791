package challenge

import (
	"time"

	"healthChallengeAPI/internal/types/metrics"
)

type Interval string

const (
	IntervalDaily   Interval = "daily"
	IntervalWeekly  Interval = "weekly"
	IntervalMonthly Interval = "monthly"
)

func (i Interval) Valid() bool {
	switch i {
	case IntervalDaily, IntervalWeekly, IntervalMonthly:
		return true
	}
	return false
}

// End returns the end timestamp for a challenge started at t.
// Monthly means one calendar month, not a fixed number of days.
func (i Interval) End(t time.Time) time.Time {
	switch i {
	case IntervalDaily:
		return t.AddDate(0, 0, 1)
	case IntervalWeekly:
		return t.AddDate(0, 0, 7)
	case IntervalMonthly:
		return t.AddDate(0, 1, 0)
	}
	return t
}

// Challenge is an immutable template users can join.
// Points doubles as the numeric target the metric total is compared against.
type Challenge struct {
	ID          string       `json:"id" firestore:"id"`
	Title       string       `json:"title" firestore:"title"`
	Description string       `json:"description" firestore:"description"`
	Points      int          `json:"points" firestore:"points"`
	Metric      metrics.Type `json:"type" firestore:"type"`
	Interval    Interval     `json:"interval" firestore:"interval"`
	CreatedAt   time.Time    `json:"created_at" firestore:"created_at"`
}

// ActiveChallenge is a user's in-progress instance of a template.
// Progress is recomputed on demand from health data, never persisted.
type ActiveChallenge struct {
	ChallengeID string       `json:"challenge_id" firestore:"challenge_id"`
	Title       string       `json:"title" firestore:"title"`
	Description string       `json:"description" firestore:"description"`
	Points      int          `json:"points" firestore:"points"`
	Metric      metrics.Type `json:"type" firestore:"type"`
	Interval    Interval     `json:"interval" firestore:"interval"`
	StartTime   time.Time    `json:"start_time" firestore:"start_time"`
	EndTime     time.Time    `json:"end_time" firestore:"end_time"`
}

// PastChallenge is the terminal record of a former ActiveChallenge.
// Append-only: never mutated after creation.
type PastChallenge struct {
	ID        string          `json:"id" firestore:"id"`
	Challenge ActiveChallenge `json:"challenge" firestore:"challenge"`
	Completed bool            `json:"completed" firestore:"completed"`
}

type JoinChallengeRequest struct {
	ChallengeID string `json:"challenge_id"`
}

// ActiveChallengeProgress decorates an active challenge with its
// current cumulative metric value for display.
type ActiveChallengeProgress struct {
	ActiveChallenge
	Progress float64 `json:"progress"`
}

type UserChallengesResponse struct {
	Active []*ActiveChallengeProgress `json:"active_challenges"`
	Past   []*PastChallenge           `json:"past_challenges"`
}
