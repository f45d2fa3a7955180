package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/stockledger/app/models"
	"github.com/shashiranjanraj/stockledger/app/repositories"
	"github.com/shashiranjanraj/stockledger/pkg/auth"
	"gorm.io/gorm"
)

// ErrInvalidCredentials covers both unknown email and bad password so the
// response doesn't leak which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService is a thin account collaborator around the inventory core.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates a user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("auth: hash password: %w", err)
	}

	user := models.User{Name: name, Email: email, Password: hash, Role: "user"}
	if err := s.users.Create(ctx, &user); err != nil {
		return models.User{}, fmt.Errorf("auth: create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues a signed JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("auth: lookup user: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return "", ErrInvalidCredentials
	}

	return auth.GenerateToken(user.ID, user.Role)
}
