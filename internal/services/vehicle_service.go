package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/models"
	"gorm.io/gorm"
)

// ErrValidation marks caller input that was rejected before touching storage.
var ErrValidation = errors.New("validation failed")

type CreateVehicleInput struct {
	DiscordID string
	Plate     string
	Model     string
	Color     string
	Notes     string
	CreatedBy string
}

type VehicleService struct {
	db *gorm.DB
}

func NewVehicleService(db *gorm.DB) *VehicleService {
	return &VehicleService{db: db}
}

// ListOwn returns the vehicles owned by discordID, newest first.
func (s *VehicleService) ListOwn(ctx context.Context, discordID string) ([]models.Vehicle, error) {
	vehicles := make([]models.Vehicle, 0)
	if err := s.db.WithContext(ctx).Scopes(ForOwner(discordID), NewestFirst).Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	return vehicles, nil
}

// ListAll returns every vehicle, newest first.
func (s *VehicleService) ListAll(ctx context.Context) ([]models.Vehicle, error) {
	vehicles := make([]models.Vehicle, 0)
	if err := s.db.WithContext(ctx).Scopes(NewestFirst).Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	return vehicles, nil
}

// Create registers a vehicle. Owner and plate are required; empty optional
// fields are stored as NULL. Duplicate plates are accepted.
func (s *VehicleService) Create(ctx context.Context, in CreateVehicleInput) error {
	owner := strings.TrimSpace(in.DiscordID)
	plate := strings.TrimSpace(in.Plate)
	if owner == "" || plate == "" {
		return fmt.Errorf("%w: discord_id and plate are required", ErrValidation)
	}

	vehicle := models.Vehicle{
		DiscordID: owner,
		Plate:     plate,
		Model:     optional(in.Model),
		Color:     optional(in.Color),
		Notes:     optional(in.Notes),
		CreatedBy: in.CreatedBy,
	}

	if err := s.db.WithContext(ctx).Create(&vehicle).Error; err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	slog.Info("vehicle registered", "vehicle_id", vehicle.ID, "owner", owner, "created_by", in.CreatedBy)
	return nil
}

// DeleteByID removes the vehicle with the given id. Deleting an id that does
// not exist is not an error.
func (s *VehicleService) DeleteByID(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid vehicle id", ErrValidation)
	}

	result := s.db.WithContext(ctx).Delete(&models.Vehicle{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete vehicle: %w", result.Error)
	}

	slog.Debug("vehicle delete", "vehicle_id", id, "deleted", result.RowsAffected)
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
