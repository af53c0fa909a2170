package models

import "time"

// Vehicle is a plate registration owned by a Discord user. CreatedBy is the
// id of whoever registered it, which differs from the owner when a moderator
// registers on someone's behalf.
type Vehicle struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	DiscordID string    `gorm:"column:discord_id;not null;index" json:"discord_id"`
	Plate     string    `gorm:"not null" json:"plate"`
	Model     *string   `json:"model"`
	Color     *string   `json:"color"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}
