package models

import "time"

// Session is a server-side session row. Data is the encoded session payload;
// a nil Expiry never expires.
type Session struct {
	SID    string     `gorm:"column:sid;primaryKey"`
	Data   []byte     `gorm:"column:data;not null"`
	Expiry *time.Time `gorm:"column:expiry;index"`
}

func (Session) TableName() string {
	return "session"
}
