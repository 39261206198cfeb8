package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/derintolu/frs-partner-network/internal/model"
	"github.com/derintolu/frs-partner-network/internal/pkg"
	"github.com/derintolu/frs-partner-network/internal/repository/mysql"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ResendCooldown throttles outgoing re-delivery. A nil implementation means
// no throttling.
type ResendCooldown interface {
	TryAcquire(partnershipID uint64, window time.Duration) (bool, error)
}

// PartnershipService drives the invitation state machine:
// pending → viewed → accepted | declined.
type PartnershipService struct {
	db         *gorm.DB
	identity   *IdentityService
	membership *MembershipService
	notifier   Notifier
	cooldown   ResendCooldown
	baseURL    string
	logger     *zap.Logger
}

func NewPartnershipService(
	db *gorm.DB,
	identity *IdentityService,
	membership *MembershipService,
	notifier Notifier,
	cooldown ResendCooldown,
	baseURL string,
	logger *zap.Logger,
) *PartnershipService {
	return &PartnershipService{
		db:         db,
		identity:   identity,
		membership: membership,
		notifier:   notifier,
		cooldown:   cooldown,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger.Named("partnership_service"),
	}
}

// Invite creates a pending partnership, or falls back to a resend when a
// non-terminal invitation for the same email is already outstanding. The
// second return reports which path was taken (true = resent existing).
func (s *PartnershipService) Invite(ctx context.Context, actorID, companyID uint64, email, name, message string) (*model.Partnership, bool, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, false, fmt.Errorf("%w: invalid email %q", pkg.ErrValidation, email)
	}
	if strings.TrimSpace(name) == "" {
		return nil, false, fmt.Errorf("%w: invitee name required", pkg.ErrValidation)
	}

	role, err := s.membership.actorRole(ctx, companyID, actorID)
	if err != nil {
		return nil, false, err
	}
	if !pkg.Can(role, pkg.OpInvite) {
		return nil, false, fmt.Errorf("%w: role %s may not invite", pkg.ErrForbidden, role)
	}

	repo := &mysql.PartnershipRepository{DB: s.db.WithContext(ctx)}
	existing, err := repo.FindOutstanding(companyID, email)
	if err == nil {
		// Outstanding invite: bump the timestamp and re-deliver instead of
		// creating a duplicate. Touch reports false when the invite went
		// terminal between the lookup and here; a fresh one is created below.
		touched, err := repo.Touch(existing.ID)
		if err != nil {
			return nil, false, err
		}
		if touched {
			refreshed, err := repo.FindByID(existing.ID)
			if err != nil {
				return nil, false, err
			}
			s.deliver(refreshed)
			return refreshed, true, nil
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	now := time.Now()
	p := &model.Partnership{
		CompanyID:       companyID,
		InviterID:       actorID,
		InviteeName:     name,
		InviteeEmail:    strings.ToLower(email),
		Message:         message,
		Status:          model.PartnershipPending,
		Token:           uuid.NewString(),
		CreatedAt:       now,
		StatusChangedAt: now,
	}
	if err := repo.Create(p); err != nil {
		return nil, false, err
	}
	s.deliver(p)
	return p, false, nil
}

// Resend re-triggers delivery on an open partnership. Status never changes,
// only status_changed_at. Terminal partnerships are rejected.
func (s *PartnershipService) Resend(ctx context.Context, actorID, partnershipID uint64) (*model.Partnership, error) {
	repo := &mysql.PartnershipRepository{DB: s.db.WithContext(ctx)}
	p, err := repo.FindByID(partnershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: partnership %d", pkg.ErrNotFound, partnershipID)
		}
		return nil, err
	}

	role, err := s.membership.actorRole(ctx, p.CompanyID, actorID)
	if err != nil {
		return nil, err
	}
	if !pkg.Can(role, pkg.OpResend) {
		return nil, fmt.Errorf("%w: role %s may not resend", pkg.ErrForbidden, role)
	}

	touched, err := repo.Touch(p.ID)
	if err != nil {
		return nil, err
	}
	if !touched {
		return nil, fmt.Errorf("%w: partnership already %s", pkg.ErrInvalidState, p.Status)
	}
	refreshed, err := repo.FindByID(p.ID)
	if err != nil {
		return nil, err
	}

	if s.throttled(refreshed.ID) {
		s.logger.Info("resend throttled", zap.Uint64("partnership_id", refreshed.ID))
		return refreshed, nil
	}
	s.deliver(refreshed)
	return refreshed, nil
}

// View loads a partnership by its invite token and advances pending → viewed.
// Opening the link again later is a no-op.
func (s *PartnershipService) View(ctx context.Context, token string) (*model.Partnership, error) {
	repo := &mysql.PartnershipRepository{DB: s.db.WithContext(ctx)}
	p, err := repo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invitation", pkg.ErrNotFound)
		}
		return nil, err
	}
	if err := repo.MarkViewed(ctx, p.ID); err != nil {
		return nil, err
	}
	return repo.FindByID(p.ID)
}

// Respond applies the invitee's decision. Accept provisions the invitee's
// account and writes the member row transactionally with the status change;
// the loser of a concurrent double-response observes ErrInvalidState carrying
// the terminal status that actually won.
func (s *PartnershipService) Respond(ctx context.Context, token string, accept bool) (*model.Partnership, error) {
	repo := &mysql.PartnershipRepository{DB: s.db.WithContext(ctx)}
	p, err := repo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invitation", pkg.ErrNotFound)
		}
		return nil, err
	}

	if !accept {
		declined, applied, err := repo.Decline(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if !applied {
			return nil, fmt.Errorf("%w: partnership already %s", pkg.ErrInvalidState, declined.Status)
		}
		return declined, nil
	}

	first, last := splitName(p.InviteeName)
	userID, _, err := s.identity.Resolve(ctx, p.InviteeEmail, first, last)
	if err != nil {
		return nil, err
	}
	accepted, applied, err := repo.Accept(ctx, p.ID, userID)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, fmt.Errorf("%w: partnership already %s", pkg.ErrInvalidState, accepted.Status)
	}
	return accepted, nil
}

// EstimateProgress is a purely advisory, time-based percentage for the UI.
// It never feeds back into the state machine.
func (s *PartnershipService) EstimateProgress(p *model.Partnership) int {
	if p.Status.Terminal() {
		return 100
	}
	pct := int(time.Since(p.CreatedAt).Hours() / 4 * 100)
	if pct > 90 {
		pct = 90
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}

func (s *PartnershipService) ListByCompany(ctx context.Context, actorID, companyID uint64, page, size int) ([]model.Partnership, error) {
	if _, err := s.membership.actorRole(ctx, companyID, actorID); err != nil {
		return nil, err
	}
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	repo := &mysql.PartnershipRepository{DB: s.db}
	return repo.ListByCompany(ctx, companyID, (page-1)*size, size)
}

func (s *PartnershipService) acceptLink(p *model.Partnership) string {
	return fmt.Sprintf("%s/invite/%s", s.baseURL, p.Token)
}

func (s *PartnershipService) throttled(partnershipID uint64) bool {
	if s.cooldown == nil {
		return false
	}
	ok, err := s.cooldown.TryAcquire(partnershipID, 0)
	if err != nil {
		// Redis trouble should not block delivery.
		s.logger.Warn("cooldown check failed", zap.Error(err))
		return false
	}
	return !ok
}

// deliver hands the invite to the notifier off the request path. Failures are
// logged only: the partnership is durable once persisted.
func (s *PartnershipService) deliver(p *model.Partnership) {
	if s.notifier == nil {
		return
	}
	companyName := ""
	cRepo := &mysql.CompanyRepository{DB: s.db}
	if company, err := cRepo.FindByID(p.CompanyID); err == nil {
		companyName = company.Name
	}
	link := s.acceptLink(p)
	go func() {
		if err := s.notifier.SendInvitation(p.InviteeEmail, p.InviteeName, companyName, p.Message, link); err != nil {
			s.logger.Error("invitation delivery failed",
				zap.Error(err),
				zap.Uint64("partnership_id", p.ID),
				zap.String("email", p.InviteeEmail),
			)
		}
	}()
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
