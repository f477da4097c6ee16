package model

import "time"

type User struct {
	ID             uint   `gorm:"primaryKey"`
	FirstName      string `gorm:"size:50;not null"`
	LastName       string `gorm:"size:50;not null"`
	Email          string `gorm:"size:120;uniqueIndex;not null"`
	Password       string `gorm:"size:60;not null" json:"-"`
	TargetLanguage string `gorm:"size:10;not null"`
	NativeLanguage string `gorm:"size:10;not null"`
	Level          string `gorm:"size:20;not null"`

	// XP is monotonically non-decreasing; Progress is derived from XP by
	// the progression engine and never written anywhere else.
	XP       int `gorm:"not null;default:0"`
	Progress int `gorm:"not null;default:0"`

	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Vocabularies []Vocabulary `gorm:"constraint:OnDelete:CASCADE"`
	Activities   []Activity   `gorm:"constraint:OnDelete:CASCADE"`
}
