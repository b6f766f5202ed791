package user

import (
	"time"

	"healthChallengeAPI/internal/types/challenge"
)

// User is the per-user document in the users collection. Active and past
// challenges are embedded so a state transition is a single document write.
type User struct {
	ID               string                       `json:"user_id" firestore:"user_id"`
	Username         string                       `json:"username" firestore:"username"`
	Avatar           string                       `json:"avatar" firestore:"avatar"`
	CalorieGoal      float64                      `json:"calorie_goal" firestore:"calorie_goal"`
	StepGoal         float64                      `json:"step_goal" firestore:"step_goal"`
	DistanceGoal     float64                      `json:"distance_goal" firestore:"distance_goal"`
	ActiveChallenges []*challenge.ActiveChallenge `json:"active_challenges" firestore:"active_challenges"`
	PastChallenges   []*challenge.PastChallenge   `json:"past_challenges" firestore:"past_challenges"`
	Points           int                          `json:"points" firestore:"points"`
	DeviceTokens     []string                     `json:"-" firestore:"device_tokens"`
	CreatedAt        time.Time                    `json:"created_at" firestore:"created_at"`
	UpdatedAt        time.Time                    `json:"updated_at" firestore:"updated_at"`
}
