package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmz-api/internal/application/relation"
	"github.com/cmz-api/internal/domain"
	"github.com/cmz-api/internal/pkg/id"
	"github.com/cmz-api/internal/pkg/pagination"
	"golang.org/x/crypto/bcrypt"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldEmail       = "email"
	fieldDisplayName = "display_name"
	fieldRole        = "role"
	fieldUserType    = "user_type"
	fieldFamilyID    = "family_id"
	fieldEnabled     = "enabled"
	fieldModified    = "modified"
)

type Service interface {
	List(ctx context.Context, p pagination.Params) ([]domain.User, int, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	Create(ctx context.Context, req domain.CreateUserRequest, actor domain.Actor) (*domain.User, error)
	Update(ctx context.Context, userID string, req domain.UpdateUserRequest, actor domain.Actor) (*domain.User, error)
	Delete(ctx context.Context, userID string, actor domain.Actor) error
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, userID string, stamp domain.Stamp) error
	ScanAll(ctx context.Context) ([]domain.User, error)
}

type service struct {
	repo      userStore
	relations *relation.Checker
}

func NewService(repo userStore, relations *relation.Checker) Service {
	return &service{repo: repo, relations: relations}
}

func (s *service) List(ctx context.Context, p pagination.Params) ([]domain.User, int, error) {
	users, err := s.repo.ScanAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	page, total := pagination.Slice(users, p)
	return page, total, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.SoftDelete {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return u, nil
}

func (s *service) Create(ctx context.Context, req domain.CreateUserRequest, actor domain.Actor) (*domain.User, error) {
	ve := domain.NewValidationError()
	if req.UserID != nil {
		ve.Add("userId", "must not be supplied; IDs are server-generated")
	}
	if !domain.ValidRole(req.Role) {
		ve.Add("role", "unknown role "+req.Role)
	}
	if req.FamilyID != nil {
		if err := s.relations.Family(ctx, ve, "familyId", *req.FamilyID); err != nil {
			return nil, err
		}
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		UserID:       id.New(),
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		Role:         req.Role,
		UserType:     domain.UserTypeFor(req.Role),
		PasswordHash: string(hash),
		FamilyID:     req.FamilyID,
		Enabled:      true,
		Created:      domain.StampNow(actor),
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Update(ctx context.Context, userID string, req domain.UpdateUserRequest, actor domain.Actor) (*domain.User, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}

	ve := domain.NewValidationError()
	updates := map[string]interface{}{}
	if req.Email != nil {
		existing, err := s.repo.GetByEmail(ctx, *req.Email)
		if err == nil && existing.UserID != userID {
			return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
		} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		updates[fieldEmail] = *req.Email
	}
	if req.DisplayName != nil {
		updates[fieldDisplayName] = *req.DisplayName
	}
	if req.Role != nil {
		if !domain.ValidRole(*req.Role) {
			ve.Add("role", "unknown role "+*req.Role)
		} else {
			updates[fieldRole] = *req.Role
			updates[fieldUserType] = domain.UserTypeFor(*req.Role)
		}
	}
	if req.FamilyID != nil {
		if err := s.relations.Family(ctx, ve, "familyId", *req.FamilyID); err != nil {
			return nil, err
		}
		updates[fieldFamilyID] = *req.FamilyID
	}
	if req.Enabled != nil {
		updates[fieldEnabled] = *req.Enabled
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return s.Get(ctx, userID)
	}
	updates[fieldModified] = domain.StampNow(actor)
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID string, actor domain.Actor) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, userID, domain.StampNow(actor))
}
