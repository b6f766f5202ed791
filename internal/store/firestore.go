package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"healthChallengeAPI/internal/apperrors"
	"healthChallengeAPI/internal/types/challenge"
	"healthChallengeAPI/internal/types/leaderboard"
	"healthChallengeAPI/internal/user"
)

const (
	usersCollection      = "users"
	challengesCollection = "challenges"
)

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) GetUser(ctx context.Context, id string) (*user.User, error) {
	snap, err := s.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		if snap != nil && !snap.Exists() {
			return nil, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get user %s: %w: %v", id, apperrors.ErrRemoteRead, err)
	}

	u := &user.User{}
	if err := snap.DataTo(u); err != nil {
		return nil, fmt.Errorf("decode user %s: %w: %v", id, apperrors.ErrRemoteRead, err)
	}
	return u, nil
}

// SaveUser overwrites the whole user document.
func (s *FirestoreStore) SaveUser(ctx context.Context, u *user.User) error {
	if _, err := s.client.Collection(usersCollection).Doc(u.ID).Set(ctx, u); err != nil {
		return fmt.Errorf("save user %s: %w: %v", u.ID, apperrors.ErrRemoteWrite, err)
	}
	return nil
}

func (s *FirestoreStore) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.client.Collection(usersCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete user %s: %w: %v", id, apperrors.ErrRemoteWrite, err)
	}
	return nil
}

func (s *FirestoreStore) ListChallenges(ctx context.Context) ([]*challenge.Challenge, error) {
	iter := s.client.Collection(challengesCollection).Documents(ctx)
	defer iter.Stop()

	var challenges []*challenge.Challenge
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list challenges: %w: %v", apperrors.ErrRemoteRead, err)
		}

		c := &challenge.Challenge{}
		if err := snap.DataTo(c); err != nil {
			return nil, fmt.Errorf("decode challenge %s: %w: %v", snap.Ref.ID, apperrors.ErrRemoteRead, err)
		}
		challenges = append(challenges, c)
	}
	return challenges, nil
}

func (s *FirestoreStore) GetChallenge(ctx context.Context, id string) (*challenge.Challenge, error) {
	snap, err := s.client.Collection(challengesCollection).Doc(id).Get(ctx)
	if err != nil {
		if snap != nil && !snap.Exists() {
			return nil, fmt.Errorf("challenge %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get challenge %s: %w: %v", id, apperrors.ErrRemoteRead, err)
	}

	c := &challenge.Challenge{}
	if err := snap.DataTo(c); err != nil {
		return nil, fmt.Errorf("decode challenge %s: %w: %v", id, apperrors.ErrRemoteRead, err)
	}
	return c, nil
}

func (s *FirestoreStore) ListUserIDs(ctx context.Context) ([]string, error) {
	iter := s.client.Collection(usersCollection).DocumentRefs(ctx)

	var ids []string
	for {
		ref, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list user ids: %w: %v", apperrors.ErrRemoteRead, err)
		}
		ids = append(ids, ref.ID)
	}
	return ids, nil
}

func (s *FirestoreStore) SaveLeaderboardUser(ctx context.Context, week string, entry *leaderboard.LeaderboardUser) error {
	if _, err := s.client.Collection(week).Doc(entry.ID).Set(ctx, entry); err != nil {
		return fmt.Errorf("save leaderboard entry %s/%s: %w: %v", week, entry.ID, apperrors.ErrRemoteWrite, err)
	}
	return nil
}

func (s *FirestoreStore) ListLeaderboardUsers(ctx context.Context, week string) ([]*leaderboard.LeaderboardUser, error) {
	iter := s.client.Collection(week).Documents(ctx)
	defer iter.Stop()

	var entries []*leaderboard.LeaderboardUser
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list leaderboard %s: %w: %v", week, apperrors.ErrRemoteRead, err)
		}

		e := &leaderboard.LeaderboardUser{}
		if err := snap.DataTo(e); err != nil {
			return nil, fmt.Errorf("decode leaderboard entry %s: %w: %v", snap.Ref.ID, apperrors.ErrRemoteRead, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
