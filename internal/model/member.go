package model

import "time"

// Role gates which mutating operations a member may perform inside a company.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleMember    Role = "member"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleMember:
		return true
	}
	return false
}

type Member struct {
	ID        uint64    `gorm:"primaryKey"`
	CompanyID uint64    `gorm:"not null;index;uniqueIndex:uk_company_user"`
	UserID    uint64    `gorm:"not null;index;uniqueIndex:uk_company_user"`
	Role      Role      `gorm:"size:16;not null;default:member"`
	JoinedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time
}

func (Member) TableName() string { return "company_members" }
