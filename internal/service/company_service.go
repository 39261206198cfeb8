package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/derintolu/frs-partner-network/internal/model"
	"github.com/derintolu/frs-partner-network/internal/pkg"
	"github.com/derintolu/frs-partner-network/internal/repository/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompanyService struct {
	db         *gorm.DB
	membership *MembershipService
	logger     *zap.Logger
}

func NewCompanyService(db *gorm.DB, membership *MembershipService, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		db:         db,
		membership: membership,
		logger:     logger.Named("company_service"),
	}
}

func (s *CompanyService) CreateCompany(ctx context.Context, userID uint64, name, primary, secondary, buttonStyle string) (*model.Company, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: company name required", pkg.ErrValidation)
	}
	repo := &mysql.CompanyRepository{DB: s.db.WithContext(ctx)}
	company := &model.Company{
		Name:           name,
		PrimaryColor:   primary,
		SecondaryColor: secondary,
		ButtonStyle:    buttonStyle,
		CreatorID:      userID,
	}
	if _, err := repo.Create(company); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: company name taken", pkg.ErrValidation)
		}
		return nil, err
	}
	return company, nil
}

func (s *CompanyService) GetCompany(ctx context.Context, id uint64) (*model.Company, error) {
	repo := &mysql.CompanyRepository{DB: s.db.WithContext(ctx)}
	company, err := repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: company %d", pkg.ErrNotFound, id)
		}
		return nil, err
	}
	return company, nil
}

func (s *CompanyService) ListCompanies(ctx context.Context, page, size int) ([]model.Company, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	repo := &mysql.CompanyRepository{DB: s.db.WithContext(ctx)}
	return repo.List((page-1)*size, size)
}

func (s *CompanyService) UpdateBranding(ctx context.Context, actorID, companyID uint64, primary, secondary, buttonStyle string) error {
	role, err := s.membership.actorRole(ctx, companyID, actorID)
	if err != nil {
		return err
	}
	if !pkg.Can(role, pkg.OpEditBranding) {
		return fmt.Errorf("%w: role %s may not edit branding", pkg.ErrForbidden, role)
	}
	repo := &mysql.CompanyRepository{DB: s.db.WithContext(ctx)}
	if err := repo.UpdateBranding(companyID, primary, secondary, buttonStyle); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: company %d", pkg.ErrNotFound, companyID)
		}
		return err
	}
	return nil
}

// DeleteCompany is admin-only and cascades members, partnerships and the
// activity feed.
func (s *CompanyService) DeleteCompany(ctx context.Context, actorID, companyID uint64) error {
	role, err := s.membership.actorRole(ctx, companyID, actorID)
	if err != nil {
		return err
	}
	if !pkg.Can(role, pkg.OpDelete) {
		return fmt.Errorf("%w: role %s may not delete the company", pkg.ErrForbidden, role)
	}
	repo := &mysql.CompanyRepository{DB: s.db.WithContext(ctx)}
	if err := repo.DeleteByID(companyID); err != nil {
		return err
	}
	s.logger.Info("company deleted",
		zap.Uint64("company_id", companyID),
		zap.Uint64("actor_id", actorID),
	)
	return nil
}
