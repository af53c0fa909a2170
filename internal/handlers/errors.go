package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/auth"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/dto"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/services"
	"github.com/gofiber/fiber/v2"
)

const msgDatabaseError = "database error"

// respondError maps a service error onto the API envelope. Storage failures
// are logged with request context and never exposed to the caller.
func respondError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrValidation) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(err.Error()))
	}

	attrs := []any{
		"method", c.Method(),
		"path", c.Path(),
		"request_id", middleware.RequestID(c),
		"error", err.Error(),
	}
	if id := auth.IdentityFrom(c.UserContext()); id != nil {
		attrs = append(attrs, "discord_id", id.ID)
	}
	slog.Error("request failed", attrs...)

	return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail(msgDatabaseError))
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(message))
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("unauthorized"))
}
