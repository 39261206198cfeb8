package mysql

import (
	"context"

	"github.com/derintolu/frs-partner-network/internal/model"
	"gorm.io/gorm"
)

// ActivityRepository exposes insert and list only. Entries are immutable.
type ActivityRepository struct {
	DB *gorm.DB
}

func (r *ActivityRepository) Create(entry *model.ActivityEntry) error {
	return r.DB.Create(entry).Error
}

// ListByCompany pages newest-first on an id cursor; cursor 0 means first page.
func (r *ActivityRepository) ListByCompany(ctx context.Context, companyID uint64, cursor uint64, limit int) ([]model.ActivityEntry, uint64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := r.DB.WithContext(ctx).Model(&model.ActivityEntry{}).
		Where("company_id = ?", companyID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var rows []model.ActivityEntry
	if err := q.Order("created_at DESC, id DESC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var next uint64
	if len(rows) > limit {
		next = rows[limit-1].ID
		rows = rows[:limit]
	}
	return rows, next, nil
}
