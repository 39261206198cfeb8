package model

import "time"

// PartnerOutbox rows are written in the same transaction as the partnership
// change they describe and drained to Kafka by the relayer.
type PartnerOutbox struct {
	ID            uint64 `gorm:"primaryKey"`
	EventType     string `gorm:"size:32;not null"` // invited / resent / viewed / accepted / declined
	CompanyID     uint64 `gorm:"not null"`
	PartnershipID uint64 `gorm:"not null;index"`
	Payload       string `gorm:"type:json;not null"`
	Status        int8   `gorm:"not null;default:0"` // 0=pending 1=sent 2=failed
	Retry         int    `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (PartnerOutbox) TableName() string { return "partner_outbox" }
