package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureProfileCreatesOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRewardService(db)

	created, err := svc.EnsureProfile("user-1", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "Ada", created.Name)
	assert.Equal(t, 1, created.Level)
	assert.EqualValues(t, 0, created.XPTotal)

	// second sign-in returns the same profile, name included
	again, err := svc.EnsureProfile("user-1", "Somebody Else")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, "Ada", again.Name)
}

func TestGrantRewards(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRewardService(db)
	seedProfile(t, db, "user-1", 0, 0)

	profile, err := svc.GrantRewards("user-1", 150, 25, "lesson")
	require.NoError(t, err)
	assert.EqualValues(t, 150, profile.XPTotal)
	assert.EqualValues(t, 25, profile.Coins)
	assert.Equal(t, 2, profile.Level, "150 XP crosses the level 2 boundary")

	// grants accumulate and the level keeps following total XP
	profile, err = svc.GrantRewards("user-1", 300, 0, "boss")
	require.NoError(t, err)
	assert.EqualValues(t, 450, profile.XPTotal)
	assert.Equal(t, 3, profile.Level)
}

func TestGrantRewardsUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRewardService(db)

	_, err := svc.GrantRewards("ghost", 10, 0, "test")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGrantRewardsRejectsNegativeDeltas(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRewardService(db)
	seedProfile(t, db, "user-1", 500, 500)

	_, err := svc.GrantRewards("user-1", -10, 0, "test")
	require.Error(t, err)
	_, err = svc.GrantRewards("user-1", 0, -10, "test")
	require.Error(t, err)

	// balance untouched by the rejected calls
	profile, err := svc.EnsureProfile("user-1", "")
	require.NoError(t, err)
	assert.EqualValues(t, 500, profile.XPTotal)
	assert.EqualValues(t, 500, profile.Coins)
}
