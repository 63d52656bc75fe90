package services

import (
	"testing"

	"codequest-platform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteBossFightVictory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuizService(db, NewRewardService(db))

	seedProfile(t, db, "user-1", 0, 0)
	current := seedModule(t, db, 0, false)
	next := seedModule(t, db, 1, true)
	seedQuestions(t, db, current.ID, 0, 1, 2)
	bossAch := seedAchievement(t, db, models.ConditionBossDefeat, strptr("1"), 100, 0)
	perfectAch := seedAchievement(t, db, models.ConditionPerfectScore, strptr("1"), 100, 0)

	result, err := svc.CompleteBossFight("user-1", current.ID, []int{0, 1, 2})
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.True(t, result.Perfect)
	assert.Equal(t, 3, result.Score)
	assert.Equal(t, QuizLives, result.LivesLeft)
	assert.EqualValues(t, BossXPReward, result.XPGranted)
	assert.EqualValues(t, BossCoinReward+PerfectRunCoinBonus, result.CoinsGranted)

	require.NotNil(t, result.UnlockedModule)
	assert.Equal(t, next.ID, result.UnlockedModule.ID)

	var unlocked models.Module
	require.NoError(t, db.Where("id = ?", next.ID).First(&unlocked).Error)
	assert.False(t, unlocked.IsLocked)

	// boss XP plus both achievement grants landed on the profile
	var profile models.Profile
	require.NoError(t, db.Where("user_id = ?", "user-1").First(&profile).Error)
	assert.EqualValues(t, BossXPReward+200, profile.XPTotal)

	earnedIDs := make(map[string]bool)
	for _, a := range result.NewAchievements {
		earnedIDs[a.ID] = true
	}
	assert.True(t, earnedIDs[bossAch.ID])
	assert.True(t, earnedIDs[perfectAch.ID])
}

func TestCompleteBossFightFailureWritesNothing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuizService(db, NewRewardService(db))

	seedProfile(t, db, "user-1", 0, 0)
	current := seedModule(t, db, 0, false)
	next := seedModule(t, db, 1, true)
	seedQuestions(t, db, current.ID, 0, 0, 0)

	result, err := svc.CompleteBossFight("user-1", current.ID, []int{1, 1, 1})
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Zero(t, result.XPGranted)
	assert.Nil(t, result.UnlockedModule)

	var profile models.Profile
	require.NoError(t, db.Where("user_id = ?", "user-1").First(&profile).Error)
	assert.Zero(t, profile.XPTotal)
	assert.Zero(t, profile.Coins)

	var stillLocked models.Module
	require.NoError(t, db.Where("id = ?", next.ID).First(&stillLocked).Error)
	assert.True(t, stillLocked.IsLocked)
}

func TestCompleteBossFightImperfectPass(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuizService(db, NewRewardService(db))

	seedProfile(t, db, "user-1", 0, 0)
	module := seedModule(t, db, 0, false)
	seedQuestions(t, db, module.ID, 0, 0, 0, 0)

	// 3/4 meets ceil(4×0.7)=3 but costs a life
	result, err := svc.CompleteBossFight("user-1", module.ID, []int{0, 0, 0, 1})
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.False(t, result.Perfect)
	assert.Equal(t, QuizLives-1, result.LivesLeft)
	assert.EqualValues(t, BossCoinReward, result.CoinsGranted)
}

func TestCompleteBossFightLastModule(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuizService(db, NewRewardService(db))

	seedProfile(t, db, "user-1", 0, 0)
	module := seedModule(t, db, 0, false)
	seedQuestions(t, db, module.ID, 0)

	result, err := svc.CompleteBossFight("user-1", module.ID, []int{0})
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Nil(t, result.UnlockedModule, "no successor to unlock")
}

func TestCompleteBossFightGuards(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuizService(db, NewRewardService(db))
	seedProfile(t, db, "user-1", 0, 0)

	t.Run("unknown module", func(t *testing.T) {
		_, err := svc.CompleteBossFight("user-1", "no-such-module", []int{0})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("locked module", func(t *testing.T) {
		locked := seedModule(t, db, 5, true)
		seedQuestions(t, db, locked.ID, 0)
		_, err := svc.CompleteBossFight("user-1", locked.ID, []int{0})
		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("module without questions", func(t *testing.T) {
		empty := seedModule(t, db, 6, false)
		_, err := svc.CompleteBossFight("user-1", empty.ID, nil)
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("answer list too short", func(t *testing.T) {
		short := seedModule(t, db, 7, false)
		seedQuestions(t, db, short.ID, 0, 0)
		_, err := svc.CompleteBossFight("user-1", short.ID, []int{0})
		require.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestStartBossFight(t *testing.T) {
	db := setupTestDB(t)
	svc := NewQuizService(db, NewRewardService(db))

	module := seedModule(t, db, 0, false)
	seedQuestions(t, db, module.ID, 0, 1)

	session, err := svc.StartBossFight(module.ID)
	require.NoError(t, err)
	assert.Len(t, session.Questions, 2)
	assert.Equal(t, QuizLives, session.Lives)
}
