package model

import "time"

type Company struct {
	ID             uint64 `gorm:"primaryKey"`
	Name           string `gorm:"uniqueIndex;size:64;not null"`
	PrimaryColor   string `gorm:"size:16"`
	SecondaryColor string `gorm:"size:16"`
	ButtonStyle    string `gorm:"size:16"`
	CreatorID      uint64 `gorm:"not null;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
