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

type MembershipService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewMembershipService(db *gorm.DB, logger *zap.Logger) *MembershipService {
	return &MembershipService{
		db:     db,
		logger: logger.Named("membership_service"),
	}
}

// actorRole returns the actor's role inside the company, or ErrForbidden when
// the actor is not a member at all.
func (s *MembershipService) actorRole(ctx context.Context, companyID, actorID uint64) (model.Role, error) {
	repo := &mysql.MemberRepository{DB: s.db.WithContext(ctx)}
	m, err := repo.Find(companyID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: not a member of company %d", pkg.ErrForbidden, companyID)
		}
		return "", err
	}
	return m.Role, nil
}

// AddMember inserts strictly; an existing membership is ErrDuplicateMember.
func (s *MembershipService) AddMember(ctx context.Context, companyID, userID uint64, role model.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", pkg.ErrValidation, role)
	}
	repo := &mysql.MemberRepository{DB: s.db.WithContext(ctx)}
	err := repo.Add(&model.Member{CompanyID: companyID, UserID: userID, Role: role})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: user %d in company %d", pkg.ErrDuplicateMember, userID, companyID)
		}
		return err
	}
	return nil
}

func (s *MembershipService) ChangeRole(ctx context.Context, actorID, companyID, userID uint64, newRole model.Role) error {
	if !newRole.Valid() {
		return fmt.Errorf("%w: unknown role %q", pkg.ErrValidation, newRole)
	}
	actor, err := s.actorRole(ctx, companyID, actorID)
	if err != nil {
		return err
	}
	if !pkg.Can(actor, pkg.OpChangeRole) {
		return fmt.Errorf("%w: role %s may not change roles", pkg.ErrForbidden, actor)
	}

	repo := &mysql.MemberRepository{DB: s.db.WithContext(ctx)}
	target, err := repo.Find(companyID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: member %d", pkg.ErrNotFound, userID)
		}
		return err
	}
	if !pkg.CanTouchRole(actor, target.Role, newRole) {
		return fmt.Errorf("%w: only admins may touch admin roles", pkg.ErrForbidden)
	}

	err = repo.ChangeRole(ctx, companyID, userID, newRole)
	switch {
	case errors.Is(err, mysql.ErrLastAdminGuard):
		return fmt.Errorf("%w: company %d", pkg.ErrLastAdmin, companyID)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: member %d", pkg.ErrNotFound, userID)
	}
	return err
}

func (s *MembershipService) RemoveMember(ctx context.Context, actorID, companyID, userID uint64) error {
	actor, err := s.actorRole(ctx, companyID, actorID)
	if err != nil {
		return err
	}
	// Leaving a company yourself is always allowed, last-admin guard aside.
	if actorID != userID {
		if !pkg.Can(actor, pkg.OpRemoveMember) {
			return fmt.Errorf("%w: role %s may not remove members", pkg.ErrForbidden, actor)
		}
	}

	repo := &mysql.MemberRepository{DB: s.db.WithContext(ctx)}
	if actorID != userID {
		target, err := repo.Find(companyID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: member %d", pkg.ErrNotFound, userID)
			}
			return err
		}
		if !pkg.CanTouchRole(actor, target.Role, target.Role) {
			return fmt.Errorf("%w: only admins may remove admins", pkg.ErrForbidden)
		}
	}

	err = repo.Remove(ctx, companyID, userID)
	switch {
	case errors.Is(err, mysql.ErrLastAdminGuard):
		return fmt.Errorf("%w: company %d", pkg.ErrLastAdmin, companyID)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: member %d", pkg.ErrNotFound, userID)
	}
	return err
}

func (s *MembershipService) ListMembers(ctx context.Context, companyID uint64) ([]model.Member, error) {
	repo := &mysql.MemberRepository{DB: s.db}
	return repo.List(ctx, companyID)
}
