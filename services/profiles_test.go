package services

import (
	"testing"

	"codequest-platform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileUpdate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)
	seedProfile(t, db, "user-1", 400, 0)

	name := "New Name"
	theme := "dark"
	profile, err := svc.Update("user-1", ProfileUpdate{Name: &name, ThemePreference: &theme})
	require.NoError(t, err)
	assert.Equal(t, "New Name", profile.Name)
	require.NotNil(t, profile.ThemePreference)
	assert.Equal(t, "dark", *profile.ThemePreference)
	assert.EqualValues(t, 400, profile.XPTotal, "display updates never touch progression")

	_, err = svc.Update("ghost", ProfileUpdate{Name: &name})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetFeaturedAchievements(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)
	achSvc := NewAchievementService(db)
	seedProfile(t, db, "user-1", 0, 0)

	earned := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		ach := seedAchievement(t, db, models.ConditionCustom, nil, 0, 0)
		_, err := achSvc.AwardManual("user-1", ach.ID)
		require.NoError(t, err)
		earned = append(earned, ach.ID)
	}
	unearned := seedAchievement(t, db, models.ConditionCustom, nil, 0, 0)

	// over the pin cap
	_, err := svc.SetFeaturedAchievements("user-1", earned)
	require.ErrorIs(t, err, ErrInvalidState)

	// pinning an achievement the user has not earned
	_, err = svc.SetFeaturedAchievements("user-1", []string{earned[0], unearned.ID})
	require.ErrorIs(t, err, ErrUnauthorized)

	profile, err := svc.SetFeaturedAchievements("user-1", earned[:3])
	require.NoError(t, err)
	assert.Len(t, []string(profile.FeaturedAchievements), 3)

	// clearing the showcase is allowed
	profile, err = svc.SetFeaturedAchievements("user-1", nil)
	require.NoError(t, err)
	assert.Empty(t, []string(profile.FeaturedAchievements))
}

func TestSearchUsers(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)

	for _, p := range []struct {
		userID string
		name   string
	}{
		{"u1", "Grace Hopper"},
		{"u2", "Grace Kelly"},
		{"u3", "Alan Turing"},
	} {
		profile := seedProfile(t, db, p.userID, 0, 0)
		require.NoError(t, db.Model(profile).Update("name", p.name).Error)
	}

	// case-insensitive match
	results, err := svc.SearchUsers("grace", "u3", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// the searcher never appears in their own results
	results, err = svc.SearchUsers("grace", "u1", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "u2", results[0].UserID)

	// queries shorter than two characters return nothing
	results, err = svc.SearchUsers("g", "u3", 10)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = svc.SearchUsers("  ", "u3", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRoleDefaultsToStudent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)
	seedProfile(t, db, "user-1", 0, 0)

	role, err := svc.Role("user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, role)

	require.NoError(t, db.Create(&models.UserRole{
		ID:     "role-1",
		UserID: "user-1",
		Role:   models.RoleAdmin,
	}).Error)

	role, err = svc.Role("user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)
}

func TestPublicProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfileService(db)
	seedProfile(t, db, "user-1", 450, 120)

	public, err := svc.Public("user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", public.UserID)
	assert.EqualValues(t, 450, public.XPTotal)
	assert.Equal(t, 3, public.Level)

	_, err = svc.Public("ghost")
	require.ErrorIs(t, err, ErrNotFound)
}
