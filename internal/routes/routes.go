package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/auth"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/config"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/dto"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	sessions middleware.IdentityLoader,
	policy *auth.Policy,
	authHandler *handlers.AuthHandler,
	vehicleHandler *handlers.VehicleHandler,
	userHandler *handlers.UserHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Liveness (no session lookup)
	app.Get("/health", healthHandler.Live)

	// Discord login, stricter rate limit
	authGroup := app.Group("/auth", rateLimit(cfg.AuthRateLimit))
	authGroup.Get("/discord", authHandler.BeginLogin)
	authGroup.Get("/discord/callback", authHandler.Callback)

	app.Get("/logout", authHandler.Logout)

	// JSON API: every request resolves the caller from its session
	api := app.Group("/api", rateLimit(cfg.APIRateLimit), middleware.LoadIdentity(sessions))
	api.Get("/health", healthHandler.Check)
	api.Get("/me", authHandler.Me)

	api.Get("/vehicles", middleware.RequireAuth(), vehicleHandler.ListMine)

	// Moderator-only
	admin := api.Group("/admin", middleware.RequireModerator(policy))
	admin.Get("/vehicles", vehicleHandler.ListAll)
	admin.Post("/vehicles", vehicleHandler.Create)
	admin.Delete("/vehicles/:id", vehicleHandler.Delete)

	api.Get("/user/search", middleware.RequireModerator(policy), userHandler.Search)

	// Unknown API paths answer in the envelope instead of falling through to
	// the static files.
	api.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("not found"))
	})

	if cfg.PublicDir != "" {
		app.Static("/", cfg.PublicDir)
	}
}

func rateLimit(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:               perMinute,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.Fail("too many requests"))
		},
	})
}
