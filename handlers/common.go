// handlers/common.go
package handlers

import (
	"errors"

	"codequest-platform/services"

	"github.com/gofiber/fiber/v2"
)

// serviceError translates service sentinels into HTTP responses so
// every route file maps failures the same way.
func serviceError(c *fiber.Ctx, err error, fallback string) error {
	var funds *services.InsufficientFundsError
	if errors.As(err, &funds) {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error":     "not enough coins",
			"price":     funds.Price,
			"balance":   funds.Balance,
			"shortfall": funds.Shortfall,
		})
	}
	var cfg *services.ConfigurationError
	if errors.As(err, &cfg) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": cfg.Reason})
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrItemUnavailable):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyOwned),
		errors.Is(err, services.ErrAlreadyExists),
		errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fallback,
		"cause": err.Error(),
	})
}
