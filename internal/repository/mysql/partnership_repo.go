package mysql

import (
	"context"
	"time"

	"github.com/derintolu/frs-partner-network/internal/model"
	"gorm.io/gorm"
)

type PartnershipRepository struct {
	DB *gorm.DB
}

var nonTerminal = []model.PartnershipStatus{
	model.PartnershipPending,
	model.PartnershipViewed,
}

func (r *PartnershipRepository) Create(p *model.Partnership) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		oRepo := &OutboxRepository{DB: tx}
		return oRepo.Enqueue(EventInvited, p)
	})
}

func (r *PartnershipRepository) FindByID(id uint64) (*model.Partnership, error) {
	var p model.Partnership
	err := r.DB.First(&p, id).Error
	return &p, err
}

func (r *PartnershipRepository) FindByToken(token string) (*model.Partnership, error) {
	var p model.Partnership
	err := r.DB.Where("token = ?", token).First(&p).Error
	return &p, err
}

// FindOutstanding returns the non-terminal partnership for this invitee email
// within the company, if one exists. Email matching is case-insensitive.
func (r *PartnershipRepository) FindOutstanding(companyID uint64, email string) (*model.Partnership, error) {
	var p model.Partnership
	err := r.DB.
		Where("company_id = ? AND LOWER(invitee_email) = LOWER(?) AND status IN ?", companyID, email, nonTerminal).
		Order("id ASC").
		First(&p).Error
	return &p, err
}

func (r *PartnershipRepository) ListByCompany(ctx context.Context, companyID uint64, offset, limit int) ([]model.Partnership, error) {
	var list []model.Partnership
	err := r.DB.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	return list, err
}

// Touch bumps status_changed_at on a still-open partnership (resend path).
// Status is left alone. Returns false if the partnership has gone terminal.
func (r *PartnershipRepository) Touch(id uint64) (bool, error) {
	var touched bool
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Partnership{}).
			Where("id = ? AND status IN ?", id, nonTerminal).
			Update("status_changed_at", time.Now())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		touched = true
		var p model.Partnership
		if err := tx.First(&p, id).Error; err != nil {
			return err
		}
		oRepo := &OutboxRepository{DB: tx}
		return oRepo.Enqueue(EventResent, &p)
	})
	return touched, err
}

// MarkViewed advances pending → viewed. Any other current status is a silent
// no-op: the link can be opened any number of times.
func (r *PartnershipRepository) MarkViewed(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Partnership{}).
			Where("id = ? AND status = ?", id, model.PartnershipPending).
			Updates(map[string]any{
				"status":            model.PartnershipViewed,
				"status_changed_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		var p model.Partnership
		if err := tx.First(&p, id).Error; err != nil {
			return err
		}
		oRepo := &OutboxRepository{DB: tx}
		return oRepo.Enqueue(EventViewed, &p)
	})
}

// Accept transitions to accepted and attaches the invitee as a member in the
// same transaction. The guarded UPDATE is the linearization point: a racing
// accept or decline sees zero rows affected and reports the terminal state.
func (r *PartnershipRepository) Accept(ctx context.Context, id, userID uint64) (*model.Partnership, bool, error) {
	var out *model.Partnership
	var applied bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Partnership{}).
			Where("id = ? AND status IN ?", id, nonTerminal).
			Updates(map[string]any{
				"status":            model.PartnershipAccepted,
				"status_changed_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		var p model.Partnership
		if err := tx.First(&p, id).Error; err != nil {
			return err
		}
		out = &p
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true
		mRepo := &MemberRepository{DB: tx}
		if err := mRepo.Attach(&model.Member{
			CompanyID: p.CompanyID,
			UserID:    userID,
			Role:      model.RoleMember,
		}); err != nil {
			return err
		}
		oRepo := &OutboxRepository{DB: tx}
		return oRepo.Enqueue(EventAccepted, &p)
	})
	return out, applied, err
}

// Decline transitions to declined. No member row is written.
func (r *PartnershipRepository) Decline(ctx context.Context, id uint64) (*model.Partnership, bool, error) {
	var out *model.Partnership
	var applied bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Partnership{}).
			Where("id = ? AND status IN ?", id, nonTerminal).
			Updates(map[string]any{
				"status":            model.PartnershipDeclined,
				"status_changed_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		var p model.Partnership
		if err := tx.First(&p, id).Error; err != nil {
			return err
		}
		out = &p
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true
		oRepo := &OutboxRepository{DB: tx}
		return oRepo.Enqueue(EventDeclined, &p)
	})
	return out, applied, err
}
