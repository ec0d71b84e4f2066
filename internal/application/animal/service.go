package animal

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
	fieldName           = "name"
	fieldSpecies        = "species"
	fieldPersonality    = "personality"
	fieldWelcomeMessage = "welcome_message"
	fieldChatEnabled    = "chat_enabled"
	fieldGuardrailIDs   = "guardrail_ids"
	fieldModified       = "modified"
)

type Service interface {
	List(ctx context.Context, p pagination.Params) ([]domain.Animal, int, error)
	// ListChatEnabled is the family-facing listing: chat-enabled animals only,
	// projected to the public view.
	ListChatEnabled(ctx context.Context, p pagination.Params) ([]domain.AnimalListing, int, error)
	Get(ctx context.Context, animalID string) (*domain.Animal, error)
	Create(ctx context.Context, req domain.CreateAnimalRequest, actor domain.Actor) (*domain.Animal, error)
	Update(ctx context.Context, animalID string, req domain.UpdateAnimalRequest, actor domain.Actor) (*domain.Animal, error)
	Delete(ctx context.Context, animalID string, actor domain.Actor) error
}

type animalStore interface {
	Put(ctx context.Context, a *domain.Animal) error
	Get(ctx context.Context, animalID string) (*domain.Animal, error)
	Update(ctx context.Context, animalID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, animalID string, stamp domain.Stamp) error
	ScanAll(ctx context.Context) ([]domain.Animal, error)
}

type service struct {
	repo      animalStore
	relations *relation.Checker
}

func NewService(repo animalStore, relations *relation.Checker) Service {
	return &service{repo: repo, relations: relations}
}

func (s *service) List(ctx context.Context, p pagination.Params) ([]domain.Animal, int, error) {
	animals, err := s.repo.ScanAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	page, total := pagination.Slice(animals, p)
	return page, total, nil
}

func (s *service) ListChatEnabled(ctx context.Context, p pagination.Params) ([]domain.AnimalListing, int, error) {
	animals, err := s.repo.ScanAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	var listings []domain.AnimalListing
	for i := range animals {
		if animals[i].ChatEnabled {
			listings = append(listings, animals[i].Listing())
		}
	}
	page, total := pagination.Slice(listings, p)
	return page, total, nil
}

func (s *service) Get(ctx context.Context, animalID string) (*domain.Animal, error) {
	a, err := s.repo.Get(ctx, animalID)
	if err != nil {
		return nil, err
	}
	if a.SoftDelete {
		return nil, fmt.Errorf("animal %s: %w", animalID, domain.ErrNotFound)
	}
	return a, nil
}

func (s *service) Create(ctx context.Context, req domain.CreateAnimalRequest, actor domain.Actor) (*domain.Animal, error) {
	ve := domain.NewValidationError()
	if req.AnimalID != nil {
		ve.Add("animalId", "must not be supplied; IDs are server-generated")
	}
	if err := s.relations.Guardrails(ctx, ve, "guardrailIds", req.GuardrailIDs); err != nil {
		return nil, err
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	chatEnabled := true
	if req.ChatEnabled != nil {
		chatEnabled = *req.ChatEnabled
	}
	a := &domain.Animal{
		AnimalID:       id.New(),
		Name:           req.Name,
		Species:        req.Species,
		Personality:    req.Personality,
		WelcomeMessage: req.WelcomeMessage,
		ChatEnabled:    chatEnabled,
		GuardrailIDs:   req.GuardrailIDs,
		Created:        domain.StampNow(actor),
	}
	if err := s.repo.Put(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Update(ctx context.Context, animalID string, req domain.UpdateAnimalRequest, actor domain.Actor) (*domain.Animal, error) {
	if _, err := s.Get(ctx, animalID); err != nil {
		return nil, err
	}

	ve := domain.NewValidationError()
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.Species != nil {
		updates[fieldSpecies] = *req.Species
	}
	if req.Personality != nil {
		updates[fieldPersonality] = *req.Personality
	}
	if req.WelcomeMessage != nil {
		updates[fieldWelcomeMessage] = *req.WelcomeMessage
	}
	if req.ChatEnabled != nil {
		updates[fieldChatEnabled] = *req.ChatEnabled
	}
	if req.GuardrailIDs != nil {
		if err := s.relations.Guardrails(ctx, ve, "guardrailIds", req.GuardrailIDs); err != nil {
			return nil, err
		}
		updates[fieldGuardrailIDs] = req.GuardrailIDs
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return s.Get(ctx, animalID)
	}
	updates[fieldModified] = domain.StampNow(actor)
	if err := s.repo.Update(ctx, animalID, updates); err != nil {
		return nil, err
	}
	return s.Get(ctx, animalID)
}

func (s *service) Delete(ctx context.Context, animalID string, actor domain.Actor) error {
	if _, err := s.Get(ctx, animalID); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, animalID, domain.StampNow(actor))
}
