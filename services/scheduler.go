// services/scheduler.go
package services

import (
	"log"
	"time"

	"codequest-platform/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// SchedulerService runs the background jobs: auto-publishing of
// scheduled modules and the daily streak sweep.
type SchedulerService struct {
	DB *gorm.DB
}

func NewSchedulerService(db *gorm.DB) *SchedulerService {
	return &SchedulerService{DB: db}
}

func (s *SchedulerService) Start() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every minute: publish modules whose publish_at has passed
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(s.publishDueModules),
	)

	// Daily at 00:05 UTC: reset streaks that were not kept alive yesterday
	_, _ = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(s.expireStaleStreaks),
	)
}

func (s *SchedulerService) publishDueModules() {
	var modules []models.Module
	now := time.Now()
	err := s.DB.Where("status = ? AND publish_at <= ?", models.ModuleStatusScheduled, now).
		Find(&modules).Error
	if err != nil {
		log.Printf("[Scheduler] DB error: %v", err)
		return
	}

	for _, m := range modules {
		m.Status = models.ModuleStatusPublished
		m.PublishAt = nil
		if err := s.DB.Save(&m).Error; err != nil {
			log.Printf("[Scheduler] Failed to publish module %s: %v", m.ID, err)
		} else {
			log.Printf("✅ Auto-published module: %s", m.Title)
		}
	}
}

// expireStaleStreaks zeroes every streak whose last activity is before
// yesterday (UTC calendar days). A learner active yesterday still has
// until midnight tonight to extend their streak.
func (s *SchedulerService) expireStaleStreaks() {
	now := time.Now().UTC()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)

	res := s.DB.Model(&models.Profile{}).
		Where("current_streak > 0 AND (last_activity_at IS NULL OR last_activity_at < ?)", cutoff).
		Update("current_streak", 0)
	if res.Error != nil {
		log.Printf("[Scheduler] Streak sweep failed: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("🔥 Streak sweep: reset %d stale streaks", res.RowsAffected)
	}
}
