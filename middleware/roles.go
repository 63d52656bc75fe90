// middleware/roles.go
package middleware

import (
	"errors"
	"log"

	"codequest-platform/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequireRoleMiddleware checks the caller's role against the user_roles
// table. The gateway headers carry a role hint but the table is the
// source of truth — a forged header never grants access.
func RequireRoleMiddleware(db *gorm.DB, allowed ...models.AppRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := UserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing user context"})
		}

		role := models.RoleStudent
		var record models.UserRole
		err := db.Where("user_id = ?", userID).First(&record).Error
		switch {
		case err == nil:
			role = record.Role
		case errors.Is(err, gorm.ErrRecordNotFound):
			// no row means plain student
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "role lookup failed", "cause": err.Error()})
		}

		for _, a := range allowed {
			if role == a {
				return c.Next()
			}
		}

		log.Printf("🚫 [ROLES] %s (%s) denied on %s", userID, role, c.Path())
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient role"})
	}
}

// RequireAdminMiddleware gates the admin console.
func RequireAdminMiddleware(db *gorm.DB) fiber.Handler {
	return RequireRoleMiddleware(db, models.RoleAdmin)
}
