package model

import "time"

type User struct {
	ID        uint64 `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;size:32;not null"`
	Password  string `gorm:"size:255;not null"`
	Email     string `gorm:"uniqueIndex;size:128;not null"`
	FirstName string `gorm:"size:64"`
	LastName  string `gorm:"size:64"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
