package model

import "time"

// PartnershipStatus moves pending → viewed → accepted|declined. Accepted and
// declined are terminal.
type PartnershipStatus string

const (
	PartnershipPending  PartnershipStatus = "pending"
	PartnershipViewed   PartnershipStatus = "viewed"
	PartnershipAccepted PartnershipStatus = "accepted"
	PartnershipDeclined PartnershipStatus = "declined"
)

func (s PartnershipStatus) Terminal() bool {
	return s == PartnershipAccepted || s == PartnershipDeclined
}

type Partnership struct {
	ID              uint64            `gorm:"primaryKey"`
	CompanyID       uint64            `gorm:"not null;index:idx_company_email,priority:1"`
	InviterID       uint64            `gorm:"not null;index"`
	InviteeName     string            `gorm:"size:128;not null"`
	InviteeEmail    string            `gorm:"size:128;not null;index:idx_company_email,priority:2"`
	Message         string            `gorm:"type:text"`
	Status          PartnershipStatus `gorm:"size:16;not null;default:pending"`
	Token           string            `gorm:"uniqueIndex;size:36;not null"`
	CreatedAt       time.Time
	StatusChangedAt time.Time
}
