package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/auth"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/dto"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	ping   func() error
	policy *auth.Policy
}

func NewHealthHandler(ping func() error, policy *auth.Policy) *HealthHandler {
	return &HealthHandler{ping: ping, policy: policy}
}

// Live is the plain liveness probe.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.SendString("ok")
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := h.ping(); err != nil {
		dbStatus = "unhealthy"
	}

	return c.JSON(dto.HealthResponse{
		Status:     "ok",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		DB:         dbStatus,
		Moderators: h.policy.Size(),
	})
}
