package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/derintolu/frs-partner-network/internal/model"
	"github.com/derintolu/frs-partner-network/internal/pkg"
	"github.com/derintolu/frs-partner-network/internal/repository/mysql"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// IdentityService resolves an email to a directory account, provisioning one
// when absent. Resolution is idempotent by email: concurrent calls for the
// same address converge on a single account via the unique index.
type IdentityService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewIdentityService(db *gorm.DB, logger *zap.Logger) *IdentityService {
	return &IdentityService{
		db:     db,
		logger: logger.Named("identity_service"),
	}
}

// Resolve returns the user id for email, creating the account if needed.
// The second return reports whether an account was provisioned.
func (s *IdentityService) Resolve(ctx context.Context, email, firstName, lastName string) (uint64, bool, error) {
	repo := &mysql.UserRepository{DB: s.db.WithContext(ctx)}

	user, err := repo.FindByEmail(email)
	if err == nil {
		return user.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, fmt.Errorf("%w: %v", pkg.ErrResolutionFailed, err)
	}

	created, err := s.provision(ctx, email, firstName, lastName)
	if err != nil {
		return 0, false, err
	}
	return created.ID, true, nil
}

func (s *IdentityService) provision(ctx context.Context, email, firstName, lastName string) (*model.User, error) {
	repo := &mysql.UserRepository{DB: s.db.WithContext(ctx)}

	// Retry a couple of times: a duplicate key can mean either a concurrent
	// provision of the same email (reuse it) or a username collision (pick
	// another suffix).
	for attempt := 0; attempt < 3; attempt++ {
		password, err := pkg.RandPassword(24)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", pkg.ErrResolutionFailed, err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", pkg.ErrResolutionFailed, err)
		}

		user := &model.User{
			Username:  usernameFor(email, attempt),
			Password:  string(hash),
			Email:     strings.ToLower(email),
			FirstName: firstName,
			LastName:  lastName,
		}
		err = repo.Create(user)
		if err == nil {
			s.logger.Info("provisioned account",
				zap.Uint64("user_id", user.ID),
				zap.String("email", user.Email),
			)
			return user, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %v", pkg.ErrResolutionFailed, err)
		}
		// Email won the race elsewhere?
		if existing, ferr := repo.FindByEmail(email); ferr == nil {
			return existing, nil
		}
		// Username collision, try the next suffix.
	}
	return nil, fmt.Errorf("%w: could not allocate username for %s", pkg.ErrResolutionFailed, email)
}

func usernameFor(email string, attempt int) string {
	local := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		local = email[:i]
	}
	local = strings.ToLower(local)
	if len(local) > 24 {
		local = local[:24]
	}
	if attempt == 0 {
		return local
	}
	suffix, err := pkg.RandPassword(6)
	if err != nil {
		suffix = fmt.Sprintf("%d", attempt)
	}
	return fmt.Sprintf("%s-%s", local, strings.ToLower(suffix))
}
