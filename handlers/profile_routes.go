// handlers/profile_routes.go
package handlers

import (
	"codequest-platform/middleware"
	"codequest-platform/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App, profiles *services.ProfileService, rewards *services.RewardService, achievements *services.AchievementService) {
	secured := app.Group("/s", middleware.UserContextMiddleware())

	// The gateway forwards the display name on first sign-in; the
	// profile is created lazily the first time the user shows up.
	secured.Get("/profile", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)
		name := c.Get("X-User-Name")
		if name == "" {
			name = "Learner"
		}

		profile, err := rewards.EnsureProfile(userID, name)
		if err != nil {
			return serviceError(c, err, "failed to load profile")
		}

		return c.JSON(fiber.Map{
			"profile":           profile,
			"xp_for_next_level": services.XPForLevel(profile.Level),
			"progress_percent":  services.ProgressPercent(profile.XPTotal, profile.Level),
		})
	})

	secured.Patch("/profile", func(c *fiber.Ctx) error {
		var update services.ProfileUpdate
		if err := c.BodyParser(&update); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		profile, err := profiles.Update(middleware.UserID(c), update)
		if err != nil {
			return serviceError(c, err, "failed to update profile")
		}
		return c.JSON(profile)
	})

	secured.Put("/profile/featured-achievements", func(c *fiber.Ctx) error {
		var req struct {
			AchievementIDs []string `json:"achievement_ids"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		profile, err := profiles.SetFeaturedAchievements(middleware.UserID(c), req.AchievementIDs)
		if err != nil {
			return serviceError(c, err, "failed to set featured achievements")
		}
		return c.JSON(profile)
	})

	secured.Get("/profile/achievements", func(c *fiber.Ctx) error {
		records, byID, err := achievements.UserAchievements(middleware.UserID(c))
		if err != nil {
			return serviceError(c, err, "failed to load achievements")
		}

		response := make([]fiber.Map, 0, len(records))
		for _, r := range records {
			ach := byID[r.AchievementID]
			response = append(response, fiber.Map{
				"achievement_id": r.AchievementID,
				"name":           ach.Name,
				"description":    ach.Description,
				"icon":           ach.Icon,
				"xp_reward":      ach.XPReward,
				"coin_reward":    ach.CoinReward,
				"earned_at":      r.EarnedAt,
			})
		}
		return c.JSON(response)
	})
}
