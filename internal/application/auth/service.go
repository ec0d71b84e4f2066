package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmz-api/internal/domain"
	"github.com/cmz-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	// EnsureSeedAdmin creates the superadmin seed account when it does not
	// already exist. Intended for non-production startup only.
	EnsureSeedAdmin(ctx context.Context, email, password string) error
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type jwtSigner interface {
	Sign(userID, email, role, userType string) (string, error)
}

type service struct {
	users userStore
	jwt   jwtSigner
}

func NewService(users userStore, jwt jwtSigner) Service {
	return &service{users: users, jwt: jwt}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
		}
		return nil, err
	}
	if u.SoftDelete || !u.Enabled {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	token, err := s.jwt.Sign(u.UserID, u.Email, u.Role, u.UserType)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: u}, nil
}

func (s *service) EnsureSeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u := &domain.User{
		UserID:       id.New(),
		Email:        email,
		DisplayName:  "Seed Admin",
		Role:         domain.RoleSuperAdmin,
		UserType:     domain.UserTypeStaff,
		PasswordHash: string(hash),
		Enabled:      true,
	}
	u.Created = domain.StampNow(u.Actor())
	if err := s.users.Put(ctx, u); err != nil {
		return err
	}
	slog.Info("seeded superadmin account", "email", email)
	return nil
}
