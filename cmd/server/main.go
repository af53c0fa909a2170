package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/auth"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/config"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/database"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/dto"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/logging"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/routes"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/services"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdout := logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Database
	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, pgLogHandler)))

	// Log cleanup
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetention, cleanupDone)

	// Sessions
	sessionStorage := session.NewStorage(db, cfg.SessionGC)
	sessions := session.NewManager(session.NewStore(sessionStorage, cfg.SessionMaxAge, cfg.CookieSecure))

	policy := auth.NewPolicy(cfg.Moderators())
	if policy.Size() == 0 {
		slog.Warn("MODERATOR_IDS is empty; moderator routes will refuse everyone")
	}

	// Services
	vehicleService := services.NewVehicleService(db)
	userService := services.NewUserService(db)
	provider := services.NewDiscordProvider(cfg.DiscordClientID, cfg.DiscordClientSecret, cfg.CallbackURL())
	states := services.NewOAuthState(cfg.SessionSecret, services.StateTTL)

	// Handlers
	authHandler := handlers.NewAuthHandler(provider, states, userService, sessions, policy, handlers.AuthConfig{
		SuccessPath:  cfg.LoginSuccessPath,
		FailurePath:  cfg.LoginFailurePath,
		StateTTL:     services.StateTTL,
		SecureCookie: cfg.CookieSecure,
	})
	vehicleHandler := handlers.NewVehicleHandler(vehicleService)
	userHandler := handlers.NewUserHandler(userService)
	healthHandler := handlers.NewHealthHandler(func() error { return database.Ping(db) }, policy)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    64 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: cfg.CookieKey(),
	}))

	// Routes
	routes.Setup(app, cfg, sessions, policy, authHandler, vehicleHandler, userHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "moderators", policy.Size())
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	if err := sessionStorage.Close(); err != nil {
		slog.Error("session storage close error", "error", err)
	}
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	// Close database connections
	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", middleware.RequestID(c),
			"error", err.Error(),
		)
		message = "internal server error"
	}

	return c.Status(code).JSON(dto.Fail(message))
}
