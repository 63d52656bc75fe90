package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profile is the local player record keyed by the gateway's user id.
// Created on first sign-in; mutated by the reward ledger, the shop and
// equip actions. Level is always derived from XPTotal, never trusted
// as an independent input.
type Profile struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"` // gateway identity (X-User-ID)

	Name      string  `gorm:"not null" json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`

	// Core progression
	XPTotal int64 `json:"xp_total" gorm:"default:0"`
	Level   int   `json:"level" gorm:"default:1"`
	Coins   int64 `json:"coins" gorm:"default:0"`

	// Streak tracking (UTC days)
	CurrentStreak  int        `json:"current_streak" gorm:"default:0"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`

	// Equipped cosmetics (shop item ids)
	CurrentAvatarID *string `json:"current_avatar_id,omitempty"`
	CurrentFrameID  *string `json:"current_frame_id,omitempty"`
	ThemePreference *string `json:"theme_preference,omitempty"`

	// Achievement ids pinned on the public profile, capped at FeaturedAchievementsCap
	FeaturedAchievements datatypes.JSONSlice[string] `json:"featured_achievements,omitempty"`

	Timestamps
}

// FeaturedAchievementsCap limits how many achievements a profile can pin.
const FeaturedAchievementsCap = 3

// AppRole mirrors the roles the admin console can assign
type AppRole string

const (
	RoleAdmin     AppRole = "admin"
	RoleModerator AppRole = "moderator"
	RoleStudent   AppRole = "student"
)

// UserRole: one role per user, managed by admins only
type UserRole struct {
	ID     string  `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string  `gorm:"uniqueIndex;not null" json:"user_id"`
	Role   AppRole `gorm:"type:varchar(16);not null;default:'student'" json:"role"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
