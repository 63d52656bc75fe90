package models

import "time"

// UserProgress records lesson completion per user. At most one row per
// (user, lesson) pair — completion is an upsert, not an insert.
type UserProgress struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID   string `gorm:"not null;uniqueIndex:idx_progress_user_lesson" json:"user_id"`
	LessonID string `gorm:"not null;uniqueIndex:idx_progress_user_lesson;index" json:"lesson_id"`

	IsCompleted bool       `gorm:"default:false" json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	QuizScore   *int       `json:"quiz_score,omitempty"`

	Timestamps
}
