package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alezamal98/qacorvus-enterprise-qa/internal/models"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/repository"
	"github.com/alezamal98/qacorvus-enterprise-qa/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	users         repository.UserRepository
	sessionSecret string
}

func NewAuthService(users repository.UserRepository, sessionSecret string) *AuthService {
	return &AuthService{users: users, sessionSecret: sessionSecret}
}

func (a *AuthService) Register(ctx context.Context, email, name, password, role string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return nil, Validationf("email and name are required")
	}
	if len(password) < 8 {
		return nil, Validationf("password must be at least 8 characters")
	}

	// Self-registration only creates DEV accounts; admins are seeded.
	role = models.RoleDev

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return a.users.Create(ctx, email, name, role, hash)
}

func (a *AuthService) Login(ctx context.Context, email, password string) (token string, user *models.User, err error) {
	u, hash, err := a.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !utils.CheckPassword(hash, password) {
		return "", nil, ErrInvalidCredentials
	}
	tok, err := utils.SignJWT(a.sessionSecret, u.ID, u.Role, 24*time.Hour)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}

func (a *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	u, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	_, hash, err := a.users.GetByEmail(ctx, u.Email)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(hash, current) {
		return ErrInvalidCredentials
	}
	if len(next) < 8 {
		return Validationf("password must be at least 8 characters")
	}
	newHash, err := utils.HashPassword(next)
	if err != nil {
		return err
	}
	return a.users.UpdatePasswordHash(ctx, userID, newHash)
}
