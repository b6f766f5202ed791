package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"healthChallengeAPI/internal/apperrors"
	"healthChallengeAPI/internal/store"
	"healthChallengeAPI/internal/user"
)

// Default per-metric goals for a freshly provisioned user, user-editable
// afterwards. Calories in kcal, distance in km.
const (
	defaultCalorieGoal  = 500
	defaultStepGoal     = 10000
	defaultDistanceGoal = 5
)

type UserService struct {
	store store.DocumentStore
}

func NewUserService(docStore store.DocumentStore) *UserService {
	return &UserService{store: docStore}
}

// GetOrCreateUser returns the user document, provisioning a fresh one on
// first sign-in (anonymous sessions included).
func (s *UserService) GetOrCreateUser(ctx context.Context, userID string) (*user.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	return s.CreateUser(ctx, userID, "", "")
}

func (s *UserService) CreateUser(ctx context.Context, userID, username, avatar string) (*user.User, error) {
	if username == "" {
		username = "user-" + shortID(userID)
	}

	now := time.Now()
	u := &user.User{
		ID:           userID,
		Username:     username,
		Avatar:       avatar,
		CalorieGoal:  defaultCalorieGoal,
		StepGoal:     defaultStepGoal,
		DistanceGoal: defaultDistanceGoal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.SaveUser(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to provision user: %w", err)
	}

	log.Printf("Provisioned new user %s", userID)
	return u, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *user.UpdateProfileRequest) (*user.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != "" {
		u.Username = req.Username
	}
	if req.Avatar != "" {
		u.Avatar = req.Avatar
	}
	u.UpdatedAt = time.Now()

	if err := s.store.SaveUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) UpdateGoals(ctx context.Context, userID string, req *user.UpdateGoalsRequest) (*user.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.CalorieGoal != nil {
		u.CalorieGoal = *req.CalorieGoal
	}
	if req.StepGoal != nil {
		u.StepGoal = *req.StepGoal
	}
	if req.DistanceGoal != nil {
		u.DistanceGoal = *req.DistanceGoal
	}
	u.UpdatedAt = time.Now()

	if err := s.store.SaveUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	return s.store.DeleteUser(ctx, userID)
}

// RegisterDevice stores an FCM device token on the user document. Registering
// the same token twice is a no-op.
func (s *UserService) RegisterDevice(ctx context.Context, userID, token string) error {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	for _, t := range u.DeviceTokens {
		if t == token {
			return nil
		}
	}

	u.DeviceTokens = append(u.DeviceTokens, token)
	u.UpdatedAt = time.Now()
	return s.store.SaveUser(ctx, u)
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}
