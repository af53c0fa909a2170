package dto

import (
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/plate-registry/internal/models"
	"github.com/jellydator/validation"
)

type CreateVehicleRequest struct {
	DiscordID string `json:"discord_id"`
	Plate     string `json:"plate"`
	Model     string `json:"model"`
	Color     string `json:"color"`
	Notes     string `json:"notes"`
}

// Validate checks the request after trimming surrounding whitespace.
func (r CreateVehicleRequest) Validate() error {
	r.DiscordID = strings.TrimSpace(r.DiscordID)
	r.Plate = strings.TrimSpace(r.Plate)

	return validation.ValidateStruct(&r,
		validation.Field(&r.DiscordID, validation.Required, validation.Length(1, 32)),
		validation.Field(&r.Plate, validation.Required, validation.Length(1, 32)),
		validation.Field(&r.Model, validation.Length(0, 100)),
		validation.Field(&r.Color, validation.Length(0, 50)),
		validation.Field(&r.Notes, validation.Length(0, 1000)),
	)
}

type VehicleResponse struct {
	ID        int64     `json:"id"`
	DiscordID string    `json:"discord_id"`
	Plate     string    `json:"plate"`
	Model     *string   `json:"model"`
	Color     *string   `json:"color"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
}

type VehicleListResponse struct {
	OK       bool              `json:"ok"`
	Vehicles []VehicleResponse `json:"vehicles"`
}

func NewVehicleList(vehicles []models.Vehicle) VehicleListResponse {
	out := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, VehicleResponse{
			ID:        v.ID,
			DiscordID: v.DiscordID,
			Plate:     v.Plate,
			Model:     v.Model,
			Color:     v.Color,
			Notes:     v.Notes,
			CreatedAt: v.CreatedAt,
			CreatedBy: v.CreatedBy,
		})
	}
	return VehicleListResponse{OK: true, Vehicles: out}
}
