package services

import (
	"errors"
	"log"
	"strconv"

	"codequest-platform/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AchievementService struct {
	DB *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{DB: db}
}

// EvaluateAndGrant checks every achievement of the given condition type
// against the observed value and grants the ones the user newly
// qualifies for. Safe to call redundantly: the earned-already check runs
// inside the transaction immediately before insert, and the composite
// unique index on (user, achievement) settles any remaining race.
// Returns the achievements earned by this call, empty if none.
func (s *AchievementService) EvaluateAndGrant(userID string, conditionType models.ConditionType, observedValue int64) ([]models.Achievement, error) {
	if !conditionType.Valid() {
		return nil, &ConfigurationError{Reason: "unknown achievement condition type: " + string(conditionType)}
	}

	var candidates []models.Achievement
	if err := s.DB.Where("condition_type = ?", conditionType).Find(&candidates).Error; err != nil {
		return nil, err
	}

	var earned []models.Achievement
	for _, ach := range candidates {
		if observedValue < thresholdOf(&ach) {
			continue
		}

		granted, err := s.grant(userID, &ach)
		if err != nil {
			return earned, err
		}
		if granted {
			earned = append(earned, ach)
		}
	}
	return earned, nil
}

// AwardManual grants a single achievement directly, used by the admin
// console for custom-condition achievements. Returns ErrAlreadyExists
// when the user holds it already.
func (s *AchievementService) AwardManual(userID, achievementID string) (*models.Achievement, error) {
	var ach models.Achievement
	if err := s.DB.Where("id = ?", achievementID).First(&ach).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	granted, err := s.grant(userID, &ach)
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, ErrAlreadyExists
	}
	return &ach, nil
}

// grant inserts the earned record and credits the achievement's rewards
// in one transaction. Reports false (no error) when already earned.
func (s *AchievementService) grant(userID string, ach *models.Achievement) (bool, error) {
	granted := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.UserAchievement{}).
			Where("user_id = ? AND achievement_id = ?", userID, ach.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil // already earned
		}

		record := models.UserAchievement{
			ID:            uuid.NewString(),
			UserID:        userID,
			AchievementID: ach.ID,
		}
		if err := tx.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil // lost a duplicate-trigger race, nothing to grant
			}
			return err
		}

		if _, err := grantRewards(tx, userID, ach.XPReward, ach.CoinReward); err != nil {
			return err
		}

		granted = true
		log.Printf("🏆 Achievement earned: %q → %s (+%d XP, +%d coins)",
			ach.Name, userID, ach.XPReward, ach.CoinReward)
		return nil
	})
	return granted, err
}

// thresholdOf parses condition_value as an integer threshold. Missing or
// unparseable values count as 0 — satisfied as soon as evaluated.
func thresholdOf(ach *models.Achievement) int64 {
	if ach.ConditionValue == nil {
		return 0
	}
	v, err := strconv.ParseInt(*ach.ConditionValue, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// UserAchievements lists earned records with their achievement config.
func (s *AchievementService) UserAchievements(userID string) ([]models.UserAchievement, map[string]models.Achievement, error) {
	var records []models.UserAchievement
	if err := s.DB.Where("user_id = ?", userID).Order("earned_at DESC").Find(&records).Error; err != nil {
		return nil, nil, err
	}

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.AchievementID)
	}

	byID := make(map[string]models.Achievement, len(ids))
	if len(ids) > 0 {
		var configs []models.Achievement
		if err := s.DB.Where("id IN ?", ids).Find(&configs).Error; err != nil {
			return nil, nil, err
		}
		for _, a := range configs {
			byID[a.ID] = a
		}
	}
	return records, byID, nil
}
