package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthChallengeAPI/internal/user"
)

func TestGetOrCreateUserProvisionsDefaults(t *testing.T) {
	docs := newMemStore()
	svc := NewUserService(docs)

	u, err := svc.GetOrCreateUser(context.Background(), "user_2abcDEF12345")
	require.NoError(t, err)

	assert.Equal(t, "user_2abcDEF12345", u.ID)
	assert.Equal(t, "user-DEF12345", u.Username)
	assert.Equal(t, 500.0, u.CalorieGoal)
	assert.Equal(t, 10000.0, u.StepGoal)
	assert.Equal(t, 5.0, u.DistanceGoal)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestGetOrCreateUserIdempotent(t *testing.T) {
	docs := newMemStore()
	svc := NewUserService(docs)

	first, err := svc.GetOrCreateUser(context.Background(), "user-1")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(context.Background(), "user-1", &user.UpdateProfileRequest{Username: "runner"})
	require.NoError(t, err)

	second, err := svc.GetOrCreateUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "runner", second.Username, "existing document survives a repeat call")
	assert.Equal(t, first.ID, second.ID)
}

func TestUpdateProfileIgnoresEmptyFields(t *testing.T) {
	docs := newMemStore()
	svc := NewUserService(docs)

	_, err := svc.CreateUser(context.Background(), "user-1", "runner", "avatar-3")
	require.NoError(t, err)

	u, err := svc.UpdateProfile(context.Background(), "user-1", &user.UpdateProfileRequest{Avatar: "avatar-7"})
	require.NoError(t, err)

	assert.Equal(t, "runner", u.Username)
	assert.Equal(t, "avatar-7", u.Avatar)
}

func TestUpdateGoalsPartial(t *testing.T) {
	docs := newMemStore()
	svc := NewUserService(docs)

	_, err := svc.GetOrCreateUser(context.Background(), "user-1")
	require.NoError(t, err)

	steps := 15000.0
	u, err := svc.UpdateGoals(context.Background(), "user-1", &user.UpdateGoalsRequest{StepGoal: &steps})
	require.NoError(t, err)

	assert.Equal(t, 15000.0, u.StepGoal)
	assert.Equal(t, 500.0, u.CalorieGoal, "untouched goals keep their values")
	assert.Equal(t, 5.0, u.DistanceGoal)
}

func TestRegisterDeviceIdempotent(t *testing.T) {
	docs := newMemStore()
	svc := NewUserService(docs)

	_, err := svc.GetOrCreateUser(context.Background(), "user-1")
	require.NoError(t, err)

	require.NoError(t, svc.RegisterDevice(context.Background(), "user-1", "tok-a"))
	require.NoError(t, svc.RegisterDevice(context.Background(), "user-1", "tok-b"))
	require.NoError(t, svc.RegisterDevice(context.Background(), "user-1", "tok-a"))

	u, err := docs.GetUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-a", "tok-b"}, u.DeviceTokens)
}

func TestDeleteUser(t *testing.T) {
	docs := newMemStore()
	svc := NewUserService(docs)

	_, err := svc.GetOrCreateUser(context.Background(), "user-1")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), "user-1"))

	_, err = svc.GetOrCreateUser(context.Background(), "user-1")
	require.NoError(t, err, "a deleted user can be provisioned again")
}
