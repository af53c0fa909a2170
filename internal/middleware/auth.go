package middleware

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/auth"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/dto"
	"github.com/gofiber/fiber/v2"
)

const (
	msgUnauthorized      = "unauthorized"
	msgModeratorRequired = "moderator access required"
)

// IdentityLoader resolves the caller from the request's session.
type IdentityLoader interface {
	Identity(c *fiber.Ctx) (*auth.Identity, error)
}

// LoadIdentity reads the session on every request and attaches the caller
// to the request context. Anonymous requests pass through untouched.
func LoadIdentity(sessions IdentityLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := sessions.Identity(c)
		if err != nil {
			slog.Error("session lookup failed",
				"method", c.Method(),
				"path", c.Path(),
				"request_id", RequestID(c),
				"error", err.Error(),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("database error"))
		}
		if id != nil {
			c.SetUserContext(auth.WithIdentity(c.UserContext(), id))
		}
		return c.Next()
	}
}

// RequireAuth rejects anonymous callers with 401.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if auth.IdentityFrom(c.UserContext()) == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(msgUnauthorized))
		}
		return c.Next()
	}
}

// RequireModerator rejects anonymous callers with 401 and everyone outside
// the policy's moderator set with 403.
func RequireModerator(policy *auth.Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := auth.IdentityFrom(c.UserContext())
		if id == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(msgUnauthorized))
		}
		if !policy.IsModerator(id.ID) {
			slog.Debug("moderator route refused", "discord_id", id.ID, "path", c.Path())
			return c.Status(fiber.StatusForbidden).JSON(dto.Fail(msgModeratorRequired))
		}
		return c.Next()
	}
}

// RequestID returns the id assigned by the requestid middleware, if any.
func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
