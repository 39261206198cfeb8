package mysql

import (
	"context"
	"encoding/json"
	"time"

	"github.com/derintolu/frs-partner-network/internal/model"
	"gorm.io/gorm"
)

const (
	EventInvited  = "invited"
	EventResent   = "resent"
	EventViewed   = "viewed"
	EventAccepted = "accepted"
	EventDeclined = "declined"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// Enqueue writes one lifecycle event row. Callers pass their transaction
// handle as DB so the event commits or rolls back with the state change.
func (r *OutboxRepository) Enqueue(event string, p *model.Partnership) error {
	payload, _ := json.Marshal(map[string]any{
		"event_time":     time.Now().UTC().Format(time.RFC3339Nano),
		"partnership_id": p.ID,
		"company_id":     p.CompanyID,
		"inviter_id":     p.InviterID,
		"invitee_email":  p.InviteeEmail,
		"status":         p.Status,
	})
	ob := &model.PartnerOutbox{
		EventType:     event,
		CompanyID:     p.CompanyID,
		PartnershipID: p.ID,
		Payload:       string(payload),
		Status:        0,
	}
	return r.DB.Create(ob).Error
}

func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.PartnerOutbox, error) {
	var list []model.PartnerOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.PartnerOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.PartnerOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}
