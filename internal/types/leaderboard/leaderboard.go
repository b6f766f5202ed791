package leaderboard

// LeaderboardUser is one user's row in a weekly leaderboard collection.
// The whole document is overwritten on every update, last write wins.
type LeaderboardUser struct {
	ID       string  `json:"id" firestore:"id"`
	Username string  `json:"username" firestore:"username"`
	Avatar   string  `json:"avatar,omitempty" firestore:"avatar"`
	Steps    float64 `json:"steps" firestore:"steps"`
	Calories float64 `json:"calories" firestore:"calories"`
	Distance float64 `json:"distance" firestore:"distance"`
	Points   int     `json:"points" firestore:"points"`
	Rank     int     `json:"rank" firestore:"-"`
}

type Leaderboard struct {
	Week         string             `json:"week"`
	Metric       string             `json:"metric"`
	Entries      []*LeaderboardUser `json:"entries"`
	UserPosition *LeaderboardUser   `json:"user_position,omitempty"`
	TotalUsers   int                `json:"total_users"`
}
