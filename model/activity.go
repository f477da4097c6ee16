package model

import "time"

// Activity is an append-only log record of one learning action and the
// XP it granted. No code path updates or deletes activities.
type Activity struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"not null;index"`
	Type        string `gorm:"size:50;not null"`
	Description string `gorm:"size:200;not null"`
	Points      int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
}
