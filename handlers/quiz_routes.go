// handlers/quiz_routes.go
package handlers

import (
	"errors"

	"codequest-platform/middleware"
	"codequest-platform/models"
	"codequest-platform/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupQuizRoutes(app *fiber.App, quiz *services.QuizService) {
	secured := app.Group("/s", middleware.UserContextMiddleware())

	// Boss fight questions. Correct answers and explanations stay on the
	// server; grading happens on submit.
	secured.Get("/modules/:id/boss", func(c *fiber.Ctx) error {
		moduleID := c.Params("id")

		var module models.Module
		if err := quiz.DB.Where("id = ?", moduleID).First(&module).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "module not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load module", "cause": err.Error()})
		}
		if module.IsLocked {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "module is locked"})
		}

		questions, err := quiz.Questions(moduleID)
		if err != nil {
			return serviceError(c, err, "failed to load questions")
		}

		sanitized := make([]fiber.Map, 0, len(questions))
		for _, q := range questions {
			sanitized = append(sanitized, fiber.Map{
				"id":       q.ID,
				"question": q.Question,
				"options":  q.Options,
			})
		}
		return c.JSON(fiber.Map{
			"module_id":     moduleID,
			"questions":     sanitized,
			"lives":         services.QuizLives,
			"passing_score": services.PassingScore(len(questions)),
		})
	})

	secured.Post("/modules/:id/boss/complete", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)

		var req struct {
			Answers []int `json:"answers"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		result, err := quiz.CompleteBossFight(userID, c.Params("id"), req.Answers)
		if err != nil {
			return serviceError(c, err, "failed to grade boss fight")
		}
		return c.JSON(result)
	})
}
