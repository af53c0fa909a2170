package services

import "gorm.io/gorm"

// ForOwner returns a GORM scope that filters vehicles by owning Discord id.
func ForOwner(discordID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("discord_id = ?", discordID)
	}
}

// NewestFirst orders vehicles by registration time, newest first. The id
// breaks ties between rows created in the same instant.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC, id DESC")
}
