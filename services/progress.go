package services

import (
	"errors"
	"log"
	"sort"
	"time"

	"codequest-platform/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LessonCoinReward is the flat coin grant for a first lesson completion.
const LessonCoinReward = 10

type ProgressService struct {
	DB      *gorm.DB
	Rewards *RewardService
}

func NewProgressService(db *gorm.DB, rewards *RewardService) *ProgressService {
	return &ProgressService{DB: db, Rewards: rewards}
}

// CompletionResult reports what a lesson completion changed.
type CompletionResult struct {
	Progress        *models.UserProgress `json:"progress"`
	FirstCompletion bool                 `json:"first_completion"`
	XPGranted       int64                `json:"xp_granted"`
	CoinsGranted    int64                `json:"coins_granted"`
	CompletedCount  int64                `json:"completed_count"`
	NewAchievements []models.Achievement `json:"new_achievements,omitempty"`
}

// CompleteLesson upserts the (user, lesson) progress record. Rewards,
// the streak bump and the completed-lesson count are applied only on
// the first completion — completing again refreshes the record but
// grants nothing.
func (s *ProgressService) CompleteLesson(userID, lessonID string, quizScore *int) (*CompletionResult, error) {
	var lesson models.Lesson
	if err := s.DB.Where("id = ?", lessonID).First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// The parent module gates the lesson: no rewards through a locked
	// or unpublished module, even by direct lesson id.
	var module models.Module
	if err := s.DB.Where("id = ?", lesson.ModuleID).First(&module).Error; err != nil {
		return nil, err
	}
	if module.Status != models.ModuleStatusPublished {
		return nil, ErrNotFound
	}
	if module.IsLocked {
		return nil, ErrUnauthorized
	}

	result := &CompletionResult{}
	now := time.Now().UTC()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var progress models.UserProgress
		err := tx.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			progress = models.UserProgress{
				ID:          uuid.NewString(),
				UserID:      userID,
				LessonID:    lessonID,
				IsCompleted: true,
				CompletedAt: &now,
				QuizScore:   quizScore,
			}
			if err := tx.Create(&progress).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrConflict // concurrent completion of the same lesson
				}
				return err
			}
			result.FirstCompletion = true
		case err != nil:
			return err
		default:
			result.FirstCompletion = !progress.IsCompleted
			progress.IsCompleted = true
			progress.CompletedAt = &now
			if quizScore != nil {
				progress.QuizScore = quizScore
			}
			if err := tx.Save(&progress).Error; err != nil {
				return err
			}
		}
		result.Progress = &progress

		if !result.FirstCompletion {
			return nil
		}

		if _, err := grantRewards(tx, userID, lesson.XPReward, LessonCoinReward); err != nil {
			return err
		}
		result.XPGranted = lesson.XPReward
		result.CoinsGranted = LessonCoinReward

		if err := bumpStreak(tx, userID, now); err != nil {
			return err
		}

		return tx.Model(&models.UserProgress{}).
			Where("user_id = ? AND is_completed = ?", userID, true).
			Count(&result.CompletedCount).Error
	})
	if err != nil {
		return nil, err
	}

	if result.FirstCompletion {
		log.Printf("📚 Lesson completed: %s → %s (+%d XP, +%d coins)",
			lessonID, userID, result.XPGranted, result.CoinsGranted)

		achSvc := NewAchievementService(s.DB)
		earned, err := achSvc.EvaluateAndGrant(userID, models.ConditionLessonComplete, result.CompletedCount)
		if err != nil {
			log.Printf("[Progress] achievement evaluation failed for %s: %v", userID, err)
		}
		result.NewAchievements = earned

		if s.Rewards != nil && s.Rewards.Leaderboard != nil {
			if profile, err := s.Rewards.EnsureProfile(userID, ""); err == nil {
				_ = s.Rewards.Leaderboard.RecordXP(userID, profile.XPTotal)
			}
		}
	}
	return result, nil
}

// bumpStreak advances the daily streak: +1 when the last activity was
// yesterday, reset to 1 when older, untouched when already today.
func bumpStreak(tx *gorm.DB, userID string, now time.Time) error {
	var profile models.Profile
	if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return err
	}

	streak := 1
	if profile.LastActivityAt != nil {
		switch daysBetween(*profile.LastActivityAt, now) {
		case 0:
			streak = profile.CurrentStreak
			if streak < 1 {
				streak = 1
			}
		case 1:
			streak = profile.CurrentStreak + 1
		}
	}

	return tx.Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"current_streak":   streak,
			"last_activity_at": now,
		}).Error
}

// daysBetween counts whole UTC calendar days from a to b.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

// UserProgress returns all progress records for a user.
func (s *ProgressService) UserProgress(userID string) ([]models.UserProgress, error) {
	var records []models.UserProgress
	err := s.DB.Where("user_id = ?", userID).Find(&records).Error
	return records, err
}

// IsLessonUnlocked decides visibility ordering within a module. The
// first lesson is always unlocked (provided the module itself is);
// a later lesson unlocks when its predecessor is completed. Lessons the
// user already completed stay accessible regardless of ordering drift.
func IsLessonUnlocked(lesson *models.Lesson, moduleLessons []models.Lesson, progress []models.UserProgress) bool {
	completed := completedSet(progress)
	if completed[lesson.ID] {
		return true
	}

	ordered := make([]models.Lesson, len(moduleLessons))
	copy(ordered, moduleLessons)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].OrderIndex < ordered[j].OrderIndex })

	for i, l := range ordered {
		if l.ID == lesson.ID {
			if i == 0 {
				return true
			}
			return completed[ordered[i-1].ID]
		}
	}
	return false
}

// ModuleCompletionCount counts the module's lessons the user completed.
func ModuleCompletionCount(moduleLessons []models.Lesson, progress []models.UserProgress) int {
	completed := completedSet(progress)
	count := 0
	for _, l := range moduleLessons {
		if completed[l.ID] {
			count++
		}
	}
	return count
}

// AllLessonsCompleted reports whether every lesson of the module is
// completed. An empty module is never "completed".
func AllLessonsCompleted(moduleLessons []models.Lesson, progress []models.UserProgress) bool {
	if len(moduleLessons) == 0 {
		return false
	}
	return ModuleCompletionCount(moduleLessons, progress) == len(moduleLessons)
}

func completedSet(progress []models.UserProgress) map[string]bool {
	set := make(map[string]bool, len(progress))
	for _, p := range progress {
		if p.IsCompleted {
			set[p.LessonID] = true
		}
	}
	return set
}
