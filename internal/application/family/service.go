package family

import (
	"context"
	"fmt"

	"github.com/cmz-api/internal/application/relation"
	"github.com/cmz-api/internal/domain"
	"github.com/cmz-api/internal/pkg/id"
	"github.com/cmz-api/internal/pkg/pagination"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName     = "name"
	fieldParents  = "parents"
	fieldStudents = "students"
	fieldModified = "modified"
)

type Service interface {
	List(ctx context.Context, p pagination.Params) ([]domain.Family, int, error)
	Get(ctx context.Context, familyID string) (*domain.Family, error)
	Create(ctx context.Context, req domain.CreateFamilyRequest, actor domain.Actor) (*domain.Family, error)
	Update(ctx context.Context, familyID string, req domain.UpdateFamilyRequest, actor domain.Actor) (*domain.Family, error)
	Delete(ctx context.Context, familyID string, actor domain.Actor) error
}

type familyStore interface {
	Put(ctx context.Context, f *domain.Family) error
	Get(ctx context.Context, familyID string) (*domain.Family, error)
	Update(ctx context.Context, familyID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, familyID string, stamp domain.Stamp) error
	ScanAll(ctx context.Context) ([]domain.Family, error)
}

type service struct {
	repo      familyStore
	relations *relation.Checker
}

func NewService(repo familyStore, relations *relation.Checker) Service {
	return &service{repo: repo, relations: relations}
}

func (s *service) List(ctx context.Context, p pagination.Params) ([]domain.Family, int, error) {
	families, err := s.repo.ScanAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	page, total := pagination.Slice(families, p)
	return page, total, nil
}

func (s *service) Get(ctx context.Context, familyID string) (*domain.Family, error) {
	f, err := s.repo.Get(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if f.SoftDelete {
		return nil, fmt.Errorf("family %s: %w", familyID, domain.ErrNotFound)
	}
	return f, nil
}

func (s *service) Create(ctx context.Context, req domain.CreateFamilyRequest, actor domain.Actor) (*domain.Family, error) {
	ve := domain.NewValidationError()
	if req.FamilyID != nil {
		ve.Add("familyId", "must not be supplied; IDs are server-generated")
	}
	if err := s.relations.Users(ctx, ve, "parents", req.Parents); err != nil {
		return nil, err
	}
	if err := s.relations.Users(ctx, ve, "students", req.Students); err != nil {
		return nil, err
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	f := &domain.Family{
		FamilyID: id.New(),
		Name:     req.Name,
		Parents:  req.Parents,
		Students: req.Students,
		Created:  domain.StampNow(actor),
	}
	if err := s.repo.Put(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) Update(ctx context.Context, familyID string, req domain.UpdateFamilyRequest, actor domain.Actor) (*domain.Family, error) {
	if _, err := s.Get(ctx, familyID); err != nil {
		return nil, err
	}

	ve := domain.NewValidationError()
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.Parents != nil {
		if err := s.relations.Users(ctx, ve, "parents", req.Parents); err != nil {
			return nil, err
		}
		updates[fieldParents] = req.Parents
	}
	if req.Students != nil {
		if err := s.relations.Users(ctx, ve, "students", req.Students); err != nil {
			return nil, err
		}
		updates[fieldStudents] = req.Students
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return s.Get(ctx, familyID)
	}
	updates[fieldModified] = domain.StampNow(actor)
	if err := s.repo.Update(ctx, familyID, updates); err != nil {
		return nil, err
	}
	return s.Get(ctx, familyID)
}

func (s *service) Delete(ctx context.Context, familyID string, actor domain.Actor) error {
	if _, err := s.Get(ctx, familyID); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, familyID, domain.StampNow(actor))
}
