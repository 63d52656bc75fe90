package services

import (
	"fmt"
	"testing"

	"codequest-platform/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a named shared in-memory SQLite database. The name
// comes from the test so parallel tests never share state, and
// cache=shared keeps gorm's pooled connections on the same database.
// TranslateError is on because the services match gorm.ErrDuplicatedKey.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.UserRole{},
		&models.Module{},
		&models.Lesson{},
		&models.UserProgress{},
		&models.QuizQuestion{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.ShopItem{},
		&models.UserInventory{},
		&models.Friendship{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedProfile(t *testing.T, db *gorm.DB, userID string, xp, coins int64) *models.Profile {
	t.Helper()
	profile := &models.Profile{
		ID:      uuid.NewString(),
		UserID:  userID,
		Name:    "Player " + userID,
		XPTotal: xp,
		Level:   LevelForXP(xp),
		Coins:   coins,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to seed profile %s: %v", userID, err)
	}
	return profile
}

func seedModule(t *testing.T, db *gorm.DB, orderIndex int, locked bool) *models.Module {
	t.Helper()
	module := &models.Module{
		ID:         uuid.NewString(),
		Title:      fmt.Sprintf("Module %d", orderIndex),
		Slug:       fmt.Sprintf("module-%d-%s", orderIndex, uuid.NewString()[:8]),
		OrderIndex: orderIndex,
		IsLocked:   locked,
		Status:     models.ModuleStatusPublished,
	}
	if err := db.Create(module).Error; err != nil {
		t.Fatalf("failed to seed module %d: %v", orderIndex, err)
	}
	return module
}

func seedLesson(t *testing.T, db *gorm.DB, moduleID string, orderIndex int, xpReward int64) *models.Lesson {
	t.Helper()
	lesson := &models.Lesson{
		ID:         uuid.NewString(),
		ModuleID:   moduleID,
		Title:      fmt.Sprintf("Lesson %d", orderIndex),
		OrderIndex: orderIndex,
		XPReward:   xpReward,
	}
	if err := db.Create(lesson).Error; err != nil {
		t.Fatalf("failed to seed lesson %d: %v", orderIndex, err)
	}
	return lesson
}

// seedQuestions creates one four-option question per entry; the entry
// value is the correct answer index.
func seedQuestions(t *testing.T, db *gorm.DB, moduleID string, correct ...int) []models.QuizQuestion {
	t.Helper()
	questions := make([]models.QuizQuestion, 0, len(correct))
	for i, answer := range correct {
		q := models.QuizQuestion{
			ID:            uuid.NewString(),
			ModuleID:      moduleID,
			Question:      fmt.Sprintf("Question %d", i),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: answer,
		}
		if err := db.Create(&q).Error; err != nil {
			t.Fatalf("failed to seed question %d: %v", i, err)
		}
		questions = append(questions, q)
	}
	return questions
}

func seedAchievement(t *testing.T, db *gorm.DB, conditionType models.ConditionType, conditionValue *string, xp, coins int64) *models.Achievement {
	t.Helper()
	ach := &models.Achievement{
		ID:             uuid.NewString(),
		Name:           "Achievement " + uuid.NewString()[:8],
		ConditionType:  conditionType,
		ConditionValue: conditionValue,
		XPReward:       xp,
		CoinReward:     coins,
	}
	if err := db.Create(ach).Error; err != nil {
		t.Fatalf("failed to seed achievement: %v", err)
	}
	return ach
}

func seedShopItem(t *testing.T, db *gorm.DB, itemType models.ItemType, price int64, active bool) *models.ShopItem {
	t.Helper()
	item := &models.ShopItem{
		ID:       uuid.NewString(),
		Name:     "Item " + uuid.NewString()[:8],
		Type:     itemType,
		Price:    price,
		IsActive: active,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to seed shop item: %v", err)
	}
	return item
}

func strptr(s string) *string { return &s }
