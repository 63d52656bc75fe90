package models

import "gorm.io/datatypes"

// QuizQuestion belongs to a module's boss fight. CorrectAnswer indexes
// into Options; the explanation is shown after answering.
type QuizQuestion struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	ModuleID string `gorm:"index;not null" json:"module_id"`

	Question      string                      `gorm:"type:text;not null" json:"question"`
	Options       datatypes.JSONSlice[string] `gorm:"not null" json:"options"`
	CorrectAnswer int                         `gorm:"not null" json:"correct_answer"`
	Explanation   string                      `gorm:"type:text" json:"explanation"`

	Timestamps
}
