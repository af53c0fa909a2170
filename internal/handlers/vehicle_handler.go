package handlers

import (
	"context"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/auth"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/dto"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/models"
	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/services"
	"github.com/gofiber/fiber/v2"
)

type VehicleStore interface {
	ListOwn(ctx context.Context, discordID string) ([]models.Vehicle, error)
	ListAll(ctx context.Context) ([]models.Vehicle, error)
	Create(ctx context.Context, in services.CreateVehicleInput) error
	DeleteByID(ctx context.Context, id int64) error
}

type VehicleHandler struct {
	vehicles VehicleStore
}

func NewVehicleHandler(vehicles VehicleStore) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

// ListMine returns the caller's own vehicles.
func (h *VehicleHandler) ListMine(c *fiber.Ctx) error {
	id := auth.IdentityFrom(c.UserContext())
	if id == nil {
		return unauthorized(c)
	}

	vehicles, err := h.vehicles.ListOwn(c.UserContext(), id.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewVehicleList(vehicles))
}

func (h *VehicleHandler) ListAll(c *fiber.Ctx) error {
	vehicles, err := h.vehicles.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewVehicleList(vehicles))
}

// Create registers a vehicle for any member on behalf of the calling moderator.
func (h *VehicleHandler) Create(c *fiber.Ctx) error {
	id := auth.IdentityFrom(c.UserContext())
	if id == nil {
		return unauthorized(c)
	}

	var req dto.CreateVehicleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	err := h.vehicles.Create(c.UserContext(), services.CreateVehicleInput{
		DiscordID: req.DiscordID,
		Plate:     req.Plate,
		Model:     req.Model,
		Color:     req.Color,
		Notes:     req.Notes,
		CreatedBy: id.ID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Success())
}

func (h *VehicleHandler) Delete(c *fiber.Ctx) error {
	vehicleID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || vehicleID <= 0 {
		return badRequest(c, "invalid vehicle id")
	}

	if err := h.vehicles.DeleteByID(c.UserContext(), vehicleID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Success())
}
