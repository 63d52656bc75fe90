// handlers/shop_routes.go
package handlers

import (
	"time"

	"codequest-platform/middleware"
	"codequest-platform/models"
	"codequest-platform/services"
	"codequest-platform/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupShopRoutes(app *fiber.App, shop *services.ShopService) {
	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Get("/shop/items", func(c *fiber.Ctx) error {
		items, err := shop.ActiveItems()
		if err != nil {
			return serviceError(c, err, "failed to load shop")
		}
		return c.JSON(items)
	})

	secured.Post("/shop/purchase", func(c *fiber.Ctx) error {
		var req struct {
			ItemID        string `json:"item_id"`
			ExpectedPrice int64  `json:"expected_price"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.ItemID == "" {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "item_id is required"})
		}

		record, err := shop.Purchase(middleware.UserID(c), req.ItemID, req.ExpectedPrice)
		if err != nil {
			return serviceError(c, err, "purchase failed")
		}
		return c.Status(fiber.StatusCreated).JSON(record)
	})

	secured.Get("/shop/inventory", func(c *fiber.Ctx) error {
		records, items, err := shop.Inventory(middleware.UserID(c))
		if err != nil {
			return serviceError(c, err, "failed to load inventory")
		}

		response := make([]fiber.Map, 0, len(records))
		for _, r := range records {
			item := items[r.ItemID]
			response = append(response, fiber.Map{
				"item_id":      r.ItemID,
				"name":         item.Name,
				"type":         item.Type,
				"image_url":    item.ImageURL,
				"purchased_at": r.PurchasedAt,
			})
		}
		return c.JSON(response)
	})

	secured.Post("/shop/equip", func(c *fiber.Ctx) error {
		var req struct {
			ItemID string `json:"item_id"`
			Slot   string `json:"slot"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		profile, err := shop.Equip(middleware.UserID(c), req.ItemID, models.ItemType(req.Slot))
		if err != nil {
			return serviceError(c, err, "equip failed")
		}
		return c.JSON(profile)
	})

	// Owned asset packs are downloaded through a short-lived signed URL.
	secured.Get("/shop/items/:id/download", func(c *fiber.Ctx) error {
		stored, err := shop.AssetDownloadURL(middleware.UserID(c), c.Params("id"))
		if err != nil {
			return serviceError(c, err, "download failed")
		}

		signed, err := utils.PresignAssetDownload(stored, 15*time.Minute)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to sign download", "cause": err.Error()})
		}
		return c.JSON(fiber.Map{"url": signed, "expires_in": int((15 * time.Minute).Seconds())})
	})
}
