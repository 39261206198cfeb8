package service

import (
	"errors"

	"github.com/derintolu/frs-partner-network/internal/model"
	"github.com/derintolu/frs-partner-network/internal/pkg"
	"github.com/derintolu/frs-partner-network/internal/repository/mysql"
	"github.com/derintolu/frs-partner-network/internal/repository/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService covers the account directory's self-service flows. Accounts can
// also come into being through the identity resolver (invites, bulk import).
type UserService struct {
	repo  *mysql.UserRepository
	rUser *redis.UserRepository
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		repo:  &mysql.UserRepository{DB: db},
		rUser: &redis.UserRepository{},
	}
}

func (s *UserService) Register(username, password, email, firstName, lastName string) error {
	if username == "" || password == "" || email == "" {
		return errors.New("username, password and email required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &model.User{
		Username:  username,
		Password:  string(hash),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}
	return s.repo.Create(user)
}

func (s *UserService) Login(username, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		return nil, errors.New("user not found")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, errors.New("invalid password")
	}
	token, err := pkg.GeneratePair(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.rUser.AddUserToken(user.ID, token.AccessToken); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *UserService) Logout(usrID uint64) error {
	return s.rUser.DeleteUserToken(usrID)
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	return pkg.Refresh(refreshToken)
}

// ChangePassword requires the old password and invalidates the session.
func (s *UserService) ChangePassword(usrID uint64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(usrID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return errors.New("old password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(user, string(hash)); err != nil {
		return err
	}
	return s.Logout(usrID)
}
