package model

import "time"

// ActivityEntry is append-only: no update or delete path exists anywhere in
// the repository layer.
type ActivityEntry struct {
	ID        uint64    `gorm:"primaryKey"`
	CompanyID uint64    `gorm:"not null;index:idx_company_created,priority:1"`
	AuthorID  uint64    `gorm:"not null;index"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index:idx_company_created,priority:2,sort:desc"`
}

func (ActivityEntry) TableName() string { return "activity_entries" }
