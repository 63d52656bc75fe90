package services

import (
	"errors"
	"fmt"
	"log"

	"codequest-platform/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RewardService is the single writer of xp_total/level/coins. Every
// grant recomputes level from the new XP total inside the same
// transaction, so no observable state ever has the two disagreeing.
type RewardService struct {
	DB          *gorm.DB
	Leaderboard *LeaderboardService // optional; nil in tests without Redis
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{DB: db}
}

// EnsureProfile returns the profile for userID, creating it on first
// sign-in (idempotent).
func (s *RewardService) EnsureProfile(userID, name string) (*models.Profile, error) {
	var profile models.Profile
	err := s.DB.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.Profile{
			ID:     uuid.NewString(),
			UserID: userID,
			Name:   name,
			Level:  1,
		}
		if err := s.DB.Create(&profile).Error; err != nil {
			return nil, err
		}
		log.Printf("✨ Profile created for %s (%s)", userID, name)
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GrantRewards atomically adds xpDelta/coinDelta to the profile and
// recomputes the level. The system only grants in normal flows, so
// negative deltas are rejected outright.
func (s *RewardService) GrantRewards(userID string, xpDelta, coinDelta int64, reason string) (*models.Profile, error) {
	updated, err := grantRewards(s.DB, userID, xpDelta, coinDelta)
	if err != nil {
		return nil, err
	}

	// Leaderboard is best-effort: Redis being down never fails a grant.
	if s.Leaderboard != nil {
		_ = s.Leaderboard.RecordXP(userID, updated.XPTotal)
	}

	log.Printf("🎮 Rewards granted: %s → XP=%d, Lvl=%d, Coins=%d (reason: %s)",
		userID, updated.XPTotal, updated.Level, updated.Coins, reason)
	return updated, nil
}

// grantRewards runs the ledger write. db may be an open transaction —
// services that need a grant inside their own transaction call this
// directly; gorm turns the nested Transaction into a savepoint.
func grantRewards(db *gorm.DB, userID string, xpDelta, coinDelta int64) (*models.Profile, error) {
	if xpDelta < 0 || coinDelta < 0 {
		return nil, fmt.Errorf("reward deltas must be non-negative (xp=%d, coins=%d)", xpDelta, coinDelta)
	}

	var updated models.Profile
	err := db.Transaction(func(tx *gorm.DB) error {
		// Increment via SQL expressions so concurrent grants for the
		// same user can never lose an update.
		res := tx.Model(&models.Profile{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"xp_total": gorm.Expr("xp_total + ?", xpDelta),
				"coins":    gorm.Expr("coins + ?", coinDelta),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("profile %s: %w", userID, ErrNotFound)
		}

		if err := tx.Where("user_id = ?", userID).First(&updated).Error; err != nil {
			return err
		}

		newLevel := LevelForXP(updated.XPTotal)
		if newLevel != updated.Level {
			if err := tx.Model(&models.Profile{}).
				Where("user_id = ?", userID).
				Update("level", newLevel).Error; err != nil {
				return err
			}
			updated.Level = newLevel
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
