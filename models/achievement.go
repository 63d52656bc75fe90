package models

import "time"

// ConditionType is the closed set of achievement triggers. Free-form
// strings from the authoring console are rejected at validation time so
// a typo can never produce a silently-ignored achievement.
type ConditionType string

const (
	ConditionLessonComplete ConditionType = "lesson_complete"
	ConditionBossDefeat     ConditionType = "boss_defeat"
	ConditionPerfectScore   ConditionType = "perfect_score"
	ConditionModuleComplete ConditionType = "module_complete"
	ConditionCustom         ConditionType = "custom" // granted manually, threshold ignored
)

// Valid reports whether t is one of the known condition types.
func (t ConditionType) Valid() bool {
	switch t {
	case ConditionLessonComplete, ConditionBossDefeat, ConditionPerfectScore,
		ConditionModuleComplete, ConditionCustom:
		return true
	}
	return false
}

// Achievement: static config authored by admins.
// ConditionValue holds the integer threshold as text; missing or
// unparseable values are treated as 0 (always satisfied once evaluated).
type Achievement struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Icon        string `gorm:"size:10" json:"icon"`

	ConditionType  ConditionType `gorm:"type:varchar(32);not null;index" json:"condition_type"`
	ConditionValue *string       `json:"condition_value,omitempty"`

	XPReward   int64 `gorm:"default:0" json:"xp_reward"`
	CoinReward int64 `gorm:"default:0" json:"coin_reward"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// UserAchievement: awarded instance. The composite unique index is the
// actual race-safety mechanism behind the earned-already check.
type UserAchievement struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string    `gorm:"not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID string    `gorm:"not null;uniqueIndex:idx_user_achievement;index" json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at" gorm:"autoCreateTime"`
}
