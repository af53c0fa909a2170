package models

// User is a Discord member that has logged in at least once. Rows are
// upserted on every login and never deleted.
type User struct {
	DiscordID     string  `gorm:"column:discord_id;primaryKey" json:"discord_id"`
	Username      string  `gorm:"column:username" json:"username"`
	Discriminator *string `gorm:"column:discriminator" json:"discriminator"`
	Avatar        *string `gorm:"column:avatar" json:"avatar"`
}

func (User) TableName() string {
	return "users"
}
