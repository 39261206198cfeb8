package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/derintolu/frs-partner-network/internal/model"
	"github.com/derintolu/frs-partner-network/internal/pkg"
	"github.com/derintolu/frs-partner-network/internal/repository/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ActivityService posts and lists company updates. Entries are append-only;
// there is deliberately no edit or delete path.
type ActivityService struct {
	db         *gorm.DB
	membership *MembershipService
	logger     *zap.Logger
}

func NewActivityService(db *gorm.DB, membership *MembershipService, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		db:         db,
		membership: membership,
		logger:     logger.Named("activity_service"),
	}
}

func (s *ActivityService) Post(ctx context.Context, actorID, companyID uint64, content string) (*model.ActivityEntry, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content required", pkg.ErrValidation)
	}
	role, err := s.membership.actorRole(ctx, companyID, actorID)
	if err != nil {
		return nil, err
	}
	if !pkg.Can(role, pkg.OpPostActivity) {
		return nil, fmt.Errorf("%w: role %s may not post", pkg.ErrForbidden, role)
	}

	entry := &model.ActivityEntry{
		CompanyID: companyID,
		AuthorID:  actorID,
		Content:   content,
	}
	repo := &mysql.ActivityRepository{DB: s.db.WithContext(ctx)}
	if err := repo.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List pages newest-first; cursor 0 means first page.
func (s *ActivityService) List(ctx context.Context, companyID uint64, cursor uint64, limit int) ([]model.ActivityEntry, uint64, error) {
	repo := &mysql.ActivityRepository{DB: s.db}
	return repo.ListByCompany(ctx, companyID, cursor, limit)
}
