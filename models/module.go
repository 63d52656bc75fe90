package models

import "time"

// ModuleStatus drives scheduled publishing of authored content.
type ModuleStatus string

const (
	ModuleStatusDraft     ModuleStatus = "draft"
	ModuleStatusScheduled ModuleStatus = "scheduled"
	ModuleStatusPublished ModuleStatus = "published"
)

// Module is an ordered content unit. OrderIndex is unique and consecutive
// from 0. IsLocked flips false exactly once, when the boss fight of the
// preceding module is won (the first module is seeded unlocked).
type Module struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Slug        string `gorm:"uniqueIndex" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Icon        string `gorm:"size:10" json:"icon"`
	Color       string `gorm:"size:32" json:"color"`
	OrderIndex  int    `gorm:"uniqueIndex;not null" json:"order_index"`
	// no gorm default: a default:true tag would make gorm drop an
	// explicit false on insert. Creation code always sets this.
	IsLocked bool `json:"is_locked"`

	Status    ModuleStatus `gorm:"type:varchar(16);not null;default:'published'" json:"status"`
	PublishAt *time.Time   `json:"publish_at,omitempty"`

	Timestamps
}

// Lesson belongs to exactly one module; OrderIndex is unique within it.
type Lesson struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	ModuleID string `gorm:"index;not null;uniqueIndex:idx_lesson_module_order" json:"module_id"`

	Title      string  `gorm:"not null" json:"title"`
	Slug       string  `json:"slug"`
	Content    string  `gorm:"type:text" json:"content"` // markdown, rendered client-side
	VideoURL   *string `json:"video_url,omitempty"`
	OrderIndex int     `gorm:"not null;uniqueIndex:idx_lesson_module_order" json:"order_index"`
	XPReward   int64   `gorm:"default:100" json:"xp_reward"`

	Timestamps
}
