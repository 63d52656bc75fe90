// handlers/social_routes.go
package handlers

import (
	"strconv"

	"codequest-platform/middleware"
	"codequest-platform/models"
	"codequest-platform/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSocialRoutes(app *fiber.App, friends *services.FriendshipService, profiles *services.ProfileService, leaderboard *services.LeaderboardService) {
	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Get("/friends", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)
		friendships, err := friends.Friends(userID)
		if err != nil {
			return serviceError(c, err, "failed to load friends")
		}
		hydrated, err := hydrateFriendships(friends, userID, friendships)
		if err != nil {
			return serviceError(c, err, "failed to load friends")
		}
		return c.JSON(hydrated)
	})

	secured.Get("/friends/requests", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)
		incoming, err := friends.PendingRequests(userID)
		if err != nil {
			return serviceError(c, err, "failed to load requests")
		}
		outgoing, err := friends.SentRequests(userID)
		if err != nil {
			return serviceError(c, err, "failed to load requests")
		}
		hydratedIn, err := hydrateFriendships(friends, userID, incoming)
		if err != nil {
			return serviceError(c, err, "failed to load requests")
		}
		hydratedOut, err := hydrateFriendships(friends, userID, outgoing)
		if err != nil {
			return serviceError(c, err, "failed to load requests")
		}
		return c.JSON(fiber.Map{
			"incoming": hydratedIn,
			"outgoing": hydratedOut,
		})
	})

	secured.Post("/friends/requests", func(c *fiber.Ctx) error {
		var req struct {
			AddresseeID string `json:"addressee_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		friendship, err := friends.SendRequest(middleware.UserID(c), req.AddresseeID)
		if err != nil {
			return serviceError(c, err, "failed to send request")
		}
		return c.Status(fiber.StatusCreated).JSON(friendship)
	})

	secured.Post("/friends/requests/:id/accept", func(c *fiber.Ctx) error {
		friendship, err := friends.AcceptRequest(c.Params("id"), middleware.UserID(c))
		if err != nil {
			return serviceError(c, err, "failed to accept request")
		}
		return c.JSON(friendship)
	})

	// Declining a request and unfriending are the same delete.
	secured.Delete("/friends/:id", func(c *fiber.Ctx) error {
		if err := friends.RemoveFriendship(c.Params("id"), middleware.UserID(c)); err != nil {
			return serviceError(c, err, "failed to remove friendship")
		}
		return c.JSON(fiber.Map{"message": "removed"})
	})

	secured.Post("/friends/block", func(c *fiber.Ctx) error {
		var req struct {
			UserID string `json:"user_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		friendship, err := friends.BlockUser(middleware.UserID(c), req.UserID)
		if err != nil {
			return serviceError(c, err, "failed to block user")
		}
		return c.JSON(friendship)
	})

	secured.Get("/users/search", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "10"))
		results, err := profiles.SearchUsers(c.Query("q"), middleware.UserID(c), limit)
		if err != nil {
			return serviceError(c, err, "search failed")
		}
		return c.JSON(results)
	})

	secured.Get("/users/:id", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)
		otherID := c.Params("id")

		public, err := profiles.Public(otherID)
		if err != nil {
			return serviceError(c, err, "failed to load profile")
		}

		response := fiber.Map{"profile": public}
		if friendship, err := friends.FriendshipWith(userID, otherID); err == nil && friendship != nil {
			response["friendship_status"] = friendship.Status
			response["friendship_id"] = friendship.ID
		}
		return c.JSON(response)
	})

	secured.Get("/leaderboard", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "10"))
		entries, rank, err := leaderboard.Top(limit, middleware.UserID(c))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load leaderboard", "cause": err.Error()})
		}
		return c.JSON(fiber.Map{
			"entries":   entries,
			"your_rank": rank,
		})
	})
}

// hydrateFriendships attaches each counterpart's public profile so the
// client renders names instead of bare ids.
func hydrateFriendships(friends *services.FriendshipService, userID string, friendships []models.Friendship) ([]fiber.Map, error) {
	response := make([]fiber.Map, 0, len(friendships))
	if len(friendships) == 0 {
		return response, nil
	}

	ids := make([]string, 0, len(friendships))
	for _, f := range friendships {
		ids = append(ids, f.Counterpart(userID))
	}
	var counterparts []models.Profile
	if err := friends.DB.Where("user_id IN ?", ids).Find(&counterparts).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]models.Profile, len(counterparts))
	for _, p := range counterparts {
		byID[p.UserID] = p
	}

	for _, f := range friendships {
		other := byID[f.Counterpart(userID)]
		response = append(response, fiber.Map{
			"friendship_id": f.ID,
			"status":        f.Status,
			"user_id":       other.UserID,
			"name":          other.Name,
			"avatar_url":    other.AvatarURL,
			"level":         other.Level,
			"xp_total":      other.XPTotal,
			"created_at":    f.CreatedAt,
		})
	}
	return response, nil
}
