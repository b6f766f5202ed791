package store

import (
	"context"

	"healthChallengeAPI/internal/types/challenge"
	"healthChallengeAPI/internal/types/leaderboard"
	"healthChallengeAPI/internal/user"
)

// DocumentStore is the remote document database the coordinator persists to.
// Implementations wrap I/O failures in apperrors.ErrRemoteRead/ErrRemoteWrite
// and report missing documents as apperrors.ErrNotFound.
type DocumentStore interface {
	GetUser(ctx context.Context, id string) (*user.User, error)
	SaveUser(ctx context.Context, u *user.User) error
	DeleteUser(ctx context.Context, id string) error

	ListChallenges(ctx context.Context) ([]*challenge.Challenge, error)
	GetChallenge(ctx context.Context, id string) (*challenge.Challenge, error)

	ListUserIDs(ctx context.Context) ([]string, error)

	SaveLeaderboardUser(ctx context.Context, week string, entry *leaderboard.LeaderboardUser) error
	ListLeaderboardUsers(ctx context.Context, week string) ([]*leaderboard.LeaderboardUser, error)
}
