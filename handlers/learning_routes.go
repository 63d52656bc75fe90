// handlers/learning_routes.go
package handlers

import (
	"errors"

	"codequest-platform/middleware"
	"codequest-platform/models"
	"codequest-platform/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupLearningRoutes(app *fiber.App, progress *services.ProgressService) {
	secured := app.Group("/s", middleware.UserContextMiddleware())

	// Module overview: published modules with the caller's completion counts.
	secured.Get("/modules", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)

		var modules []models.Module
		if err := progress.DB.
			Where("status = ?", models.ModuleStatusPublished).
			Order("order_index ASC").
			Find(&modules).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load modules", "cause": err.Error()})
		}

		var lessons []models.Lesson
		if err := progress.DB.Order("order_index ASC").Find(&lessons).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load lessons", "cause": err.Error()})
		}
		byModule := make(map[string][]models.Lesson)
		for _, l := range lessons {
			byModule[l.ModuleID] = append(byModule[l.ModuleID], l)
		}

		userProgress, err := progress.UserProgress(userID)
		if err != nil {
			return serviceError(c, err, "failed to load progress")
		}

		response := make([]fiber.Map, 0, len(modules))
		for _, m := range modules {
			moduleLessons := byModule[m.ID]
			completed := services.ModuleCompletionCount(moduleLessons, userProgress)
			response = append(response, fiber.Map{
				"id":              m.ID,
				"title":           m.Title,
				"slug":            m.Slug,
				"description":     m.Description,
				"icon":            m.Icon,
				"color":           m.Color,
				"order_index":     m.OrderIndex,
				"is_locked":       m.IsLocked,
				"lesson_count":    len(moduleLessons),
				"completed_count": completed,
				"is_completed":    services.AllLessonsCompleted(moduleLessons, userProgress),
			})
		}
		return c.JSON(response)
	})

	// Lesson list for one module, with per-lesson unlock and completion state.
	secured.Get("/modules/:id/lessons", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)
		moduleID := c.Params("id")

		var module models.Module
		if err := progress.DB.Where("id = ? AND status = ?", moduleID, models.ModuleStatusPublished).First(&module).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "module not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load module", "cause": err.Error()})
		}
		if module.IsLocked {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "module is locked — defeat the previous boss first"})
		}

		var moduleLessons []models.Lesson
		if err := progress.DB.Where("module_id = ?", moduleID).Order("order_index ASC").Find(&moduleLessons).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load lessons", "cause": err.Error()})
		}

		userProgress, err := progress.UserProgress(userID)
		if err != nil {
			return serviceError(c, err, "failed to load progress")
		}
		completedByLesson := make(map[string]models.UserProgress)
		for _, p := range userProgress {
			completedByLesson[p.LessonID] = p
		}

		response := make([]fiber.Map, 0, len(moduleLessons))
		for i := range moduleLessons {
			l := moduleLessons[i]
			record, tracked := completedByLesson[l.ID]
			entry := fiber.Map{
				"id":           l.ID,
				"title":        l.Title,
				"slug":         l.Slug,
				"order_index":  l.OrderIndex,
				"xp_reward":    l.XPReward,
				"is_unlocked":  services.IsLessonUnlocked(&l, moduleLessons, userProgress),
				"is_completed": tracked && record.IsCompleted,
			}
			if tracked && record.QuizScore != nil {
				entry["quiz_score"] = *record.QuizScore
			}
			response = append(response, entry)
		}
		return c.JSON(response)
	})

	// Lesson content; sequential order is enforced here.
	secured.Get("/lessons/:id", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)

		var lesson models.Lesson
		if err := progress.DB.Where("id = ?", c.Params("id")).First(&lesson).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "lesson not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load lesson", "cause": err.Error()})
		}

		// Same gate as the lesson list: the parent module must be
		// published and unlocked, even when the lesson id is known.
		var module models.Module
		if err := progress.DB.Where("id = ? AND status = ?", lesson.ModuleID, models.ModuleStatusPublished).First(&module).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "lesson not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load module", "cause": err.Error()})
		}
		if module.IsLocked {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "module is locked — defeat the previous boss first"})
		}

		var moduleLessons []models.Lesson
		if err := progress.DB.Where("module_id = ?", lesson.ModuleID).Order("order_index ASC").Find(&moduleLessons).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load lessons", "cause": err.Error()})
		}
		userProgress, err := progress.UserProgress(userID)
		if err != nil {
			return serviceError(c, err, "failed to load progress")
		}
		if !services.IsLessonUnlocked(&lesson, moduleLessons, userProgress) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "lesson is locked — complete the previous lesson first"})
		}

		return c.JSON(lesson)
	})

	secured.Post("/lessons/:id/complete", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)

		var req struct {
			QuizScore *int `json:"quiz_score"`
		}
		if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		result, err := progress.CompleteLesson(userID, c.Params("id"), req.QuizScore)
		if err != nil {
			return serviceError(c, err, "failed to complete lesson")
		}
		return c.JSON(result)
	})
}
