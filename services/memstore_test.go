package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"healthChallengeAPI/internal/apperrors"
	"healthChallengeAPI/internal/types/challenge"
	"healthChallengeAPI/internal/types/leaderboard"
	"healthChallengeAPI/internal/user"
)

// memStore is an in-memory DocumentStore. Documents are deep-copied on the
// way in and out so services never share state with the "remote" store,
// matching Firestore semantics.
type memStore struct {
	mu         sync.Mutex
	users      map[string]*user.User
	challenges map[string]*challenge.Challenge
	boards     map[string]map[string]*leaderboard.LeaderboardUser
	failSaves  bool
	saveCount  int
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[string]*user.User),
		challenges: make(map[string]*challenge.Challenge),
		boards:     make(map[string]map[string]*leaderboard.LeaderboardUser),
	}
}

func deepCopy[T any](src *T) *T {
	raw, err := json.Marshal(src)
	if err != nil {
		panic(err)
	}
	dst := new(T)
	if err := json.Unmarshal(raw, dst); err != nil {
		panic(err)
	}
	return dst
}

// copyUser copies field by field: DeviceTokens is hidden from JSON, so a
// marshal round trip would drop it.
func copyUser(u *user.User) *user.User {
	cp := *u
	cp.ActiveChallenges = make([]*challenge.ActiveChallenge, len(u.ActiveChallenges))
	for i, ac := range u.ActiveChallenges {
		c := *ac
		cp.ActiveChallenges[i] = &c
	}
	cp.PastChallenges = make([]*challenge.PastChallenge, len(u.PastChallenges))
	for i, pc := range u.PastChallenges {
		p := *pc
		cp.PastChallenges[i] = &p
	}
	cp.DeviceTokens = append([]string(nil), u.DeviceTokens...)
	return &cp
}

func (m *memStore) GetUser(_ context.Context, id string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
	}
	return copyUser(u), nil
}

func (m *memStore) SaveUser(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failSaves {
		return fmt.Errorf("save user %s: %w", u.ID, apperrors.ErrRemoteWrite)
	}
	m.users[u.ID] = copyUser(u)
	m.saveCount++
	return nil
}

func (m *memStore) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.users, id)
	return nil
}

func (m *memStore) ListChallenges(_ context.Context) ([]*challenge.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*challenge.Challenge
	for _, c := range m.challenges {
		out = append(out, deepCopy(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetChallenge(_ context.Context, id string) (*challenge.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.challenges[id]
	if !ok {
		return nil, fmt.Errorf("challenge %s: %w", id, apperrors.ErrNotFound)
	}
	return deepCopy(c), nil
}

func (m *memStore) ListUserIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []string
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memStore) SaveLeaderboardUser(_ context.Context, week string, entry *leaderboard.LeaderboardUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failSaves {
		return fmt.Errorf("save leaderboard entry: %w", apperrors.ErrRemoteWrite)
	}
	if m.boards[week] == nil {
		m.boards[week] = make(map[string]*leaderboard.LeaderboardUser)
	}
	m.boards[week][entry.ID] = deepCopy(entry)
	return nil
}

func (m *memStore) ListLeaderboardUsers(_ context.Context, week string) ([]*leaderboard.LeaderboardUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*leaderboard.LeaderboardUser
	for _, e := range m.boards[week] {
		out = append(out, deepCopy(e))
	}
	// map iteration order stands in for the arbitrary order a store query
	// could return; the service must not depend on it
	return out, nil
}
