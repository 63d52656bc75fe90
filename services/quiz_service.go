package services

import (
	"errors"
	"log"

	"codequest-platform/models"

	"gorm.io/gorm"
)

// QuizService owns the durable side of a boss fight: the in-quiz state
// machine lives with the client, and only a finished, passing run
// produces writes.
type QuizService struct {
	DB      *gorm.DB
	Rewards *RewardService
}

func NewQuizService(db *gorm.DB, rewards *RewardService) *QuizService {
	return &QuizService{DB: db, Rewards: rewards}
}

// BossFightResult is returned to the presentation layer as plain data.
type BossFightResult struct {
	Score           int                  `json:"score"`
	TotalQuestions  int                  `json:"total_questions"`
	PassingScore    int                  `json:"passing_score"`
	LivesLeft       int                  `json:"lives_left"`
	Passed          bool                 `json:"passed"`
	Perfect         bool                 `json:"perfect"`
	XPGranted       int64                `json:"xp_granted"`
	CoinsGranted    int64                `json:"coins_granted"`
	UnlockedModule  *models.Module       `json:"unlocked_module,omitempty"`
	NewAchievements []models.Achievement `json:"new_achievements,omitempty"`
}

// Questions returns the module's boss question set in authoring order.
func (s *QuizService) Questions(moduleID string) ([]models.QuizQuestion, error) {
	if err := s.DB.Where("id = ?", moduleID).First(&models.Module{}).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var questions []models.QuizQuestion
	err := s.DB.Where("module_id = ?", moduleID).Order("created_at ASC").Find(&questions).Error
	return questions, err
}

// StartBossFight builds the initial session state for a module. A
// module with no questions refuses to start.
func (s *QuizService) StartBossFight(moduleID string) (QuizSession, error) {
	questions, err := s.Questions(moduleID)
	if err != nil {
		return QuizSession{}, err
	}
	return NewQuizSession(questions)
}

// CompleteBossFight replays the client's answer sequence server-side,
// and on a pass atomically grants the boss bonus and unlocks the next
// module, then evaluates the boss-related achievement conditions.
// Failed runs write nothing.
func (s *QuizService) CompleteBossFight(userID, moduleID string, answers []int) (*BossFightResult, error) {
	var module models.Module
	if err := s.DB.Where("id = ?", moduleID).First(&module).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if module.IsLocked {
		return nil, ErrInvalidState
	}

	questions, err := s.Questions(moduleID)
	if err != nil {
		return nil, err
	}
	session, err := ReplaySession(questions, answers)
	if err != nil {
		return nil, err
	}

	result := &BossFightResult{
		Score:          session.Score,
		TotalQuestions: len(questions),
		PassingScore:   PassingScore(len(questions)),
		LivesLeft:      session.Lives,
		Passed:         session.Passed(),
		Perfect:        session.Perfect(),
	}
	if !result.Passed {
		return result, nil
	}

	coins := session.CoinReward()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := grantRewards(tx, userID, BossXPReward, coins); err != nil {
			return err
		}

		// Unlock the successor module; no-op when this was the last one.
		var next models.Module
		err := tx.Where("order_index = ?", module.OrderIndex+1).First(&next).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil
		case err != nil:
			return err
		}
		if next.IsLocked {
			if err := tx.Model(&models.Module{}).
				Where("id = ?", next.ID).
				Update("is_locked", false).Error; err != nil {
				return err
			}
			next.IsLocked = false
			result.UnlockedModule = &next
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.XPGranted = BossXPReward
	result.CoinsGranted = coins

	log.Printf("⚔️  Boss defeated: module %s by %s (score %d/%d, perfect=%t)",
		moduleID, userID, result.Score, result.TotalQuestions, result.Perfect)

	if s.Rewards != nil && s.Rewards.Leaderboard != nil {
		if profile, err := s.Rewards.EnsureProfile(userID, ""); err == nil {
			_ = s.Rewards.Leaderboard.RecordXP(userID, profile.XPTotal)
		}
	}

	achSvc := NewAchievementService(s.DB)
	conditions := []struct {
		condType models.ConditionType
		observed int64
		when     bool
	}{
		{models.ConditionBossDefeat, 1, true},
		{models.ConditionPerfectScore, 1, result.Perfect},
		{models.ConditionModuleComplete, int64(module.OrderIndex) + 1, true},
	}
	for _, c := range conditions {
		if !c.when {
			continue
		}
		earned, err := achSvc.EvaluateAndGrant(userID, c.condType, c.observed)
		if err != nil {
			log.Printf("[Quiz] achievement evaluation (%s) failed for %s: %v", c.condType, userID, err)
			continue
		}
		result.NewAchievements = append(result.NewAchievements, earned...)
	}

	return result, nil
}
