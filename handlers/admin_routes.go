// handlers/admin_routes.go
package handlers

import (
	"codequest-platform/middleware"
	"codequest-platform/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Admin console. Role checks go against the user_roles table, not the
// gateway headers.
func SetupAdminRoutes(app *fiber.App, db *gorm.DB, content *services.ContentService, shop *services.ShopService, achievements *services.AchievementService) {
	admin := app.Group("/s/admin",
		middleware.UserContextMiddleware(),
		middleware.RequireAdminMiddleware(db),
	)

	admin.Get("/modules", content.ListModules)
	admin.Post("/modules", content.CreateModule)
	admin.Patch("/modules/:id", content.UpdateModule)
	admin.Delete("/modules/:id", content.DeleteModule)

	admin.Post("/lessons", content.CreateLesson)
	admin.Patch("/lessons/:id", content.UpdateLesson)
	admin.Delete("/lessons/:id", content.DeleteLesson)

	admin.Post("/questions", content.CreateQuestion)
	admin.Patch("/questions/:id", content.UpdateQuestion)
	admin.Delete("/questions/:id", content.DeleteQuestion)

	admin.Post("/achievements", content.CreateAchievement)
	admin.Patch("/achievements/:id", content.UpdateAchievement)
	admin.Delete("/achievements/:id", content.DeleteAchievement)

	// Manual award for custom-condition achievements.
	admin.Post("/achievements/:id/award", func(c *fiber.Ctx) error {
		var req struct {
			UserID string `json:"user_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.UserID == "" {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "user_id is required"})
		}

		ach, err := achievements.AwardManual(req.UserID, c.Params("id"))
		if err != nil {
			return serviceError(c, err, "award failed")
		}
		return c.JSON(fiber.Map{"message": "achievement awarded", "achievement": ach})
	})

	admin.Get("/shop/items", func(c *fiber.Ctx) error {
		items, err := shop.AllItems()
		if err != nil {
			return serviceError(c, err, "failed to load shop items")
		}
		return c.JSON(items)
	})
	admin.Post("/shop/items", content.CreateShopItem)
	admin.Patch("/shop/items/:id", content.UpdateShopItem)
	admin.Delete("/shop/items/:id", content.DeleteShopItem)
	admin.Post("/shop/items/:id/image", content.UploadItemImage)
	admin.Post("/shop/items/:id/asset", content.UploadItemAsset)

	admin.Get("/users", content.ListUsers)
	admin.Post("/users/role", content.SetUserRole)
	admin.Post("/xp/grant", content.GrantXP)
}
