package guardrail

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmz-api/internal/domain"
	"github.com/cmz-api/internal/pkg/id"
	"github.com/cmz-api/internal/pkg/pagination"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName            = "name"
	fieldDescription     = "description"
	fieldBlockedPhrases  = "blocked_phrases"
	fieldRedirectMessage = "redirect_message"
	fieldScope           = "scope"
	fieldActive          = "active"
	fieldModified        = "modified"
)

type Service interface {
	List(ctx context.Context, p pagination.Params) ([]domain.Guardrail, int, error)
	Get(ctx context.Context, guardrailID string) (*domain.Guardrail, error)
	Create(ctx context.Context, req domain.CreateGuardrailRequest, actor domain.Actor) (*domain.Guardrail, error)
	Update(ctx context.Context, guardrailID string, req domain.UpdateGuardrailRequest, actor domain.Actor) (*domain.Guardrail, error)
	Delete(ctx context.Context, guardrailID string, actor domain.Actor) error
	// Screen returns the first active guardrail whose blocked phrase occurs in
	// the prompt, considering global guardrails plus the given animal scope.
	Screen(ctx context.Context, prompt string, animalGuardrailIDs []string) (*domain.Guardrail, error)
}

type guardrailStore interface {
	Put(ctx context.Context, g *domain.Guardrail) error
	Get(ctx context.Context, guardrailID string) (*domain.Guardrail, error)
	Update(ctx context.Context, guardrailID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, guardrailID string, stamp domain.Stamp) error
	ScanAll(ctx context.Context) ([]domain.Guardrail, error)
}

type service struct {
	repo guardrailStore
}

func NewService(repo guardrailStore) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, p pagination.Params) ([]domain.Guardrail, int, error) {
	guardrails, err := s.repo.ScanAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	page, total := pagination.Slice(guardrails, p)
	return page, total, nil
}

func (s *service) Get(ctx context.Context, guardrailID string) (*domain.Guardrail, error) {
	g, err := s.repo.Get(ctx, guardrailID)
	if err != nil {
		return nil, err
	}
	if g.SoftDelete {
		return nil, fmt.Errorf("guardrail %s: %w", guardrailID, domain.ErrNotFound)
	}
	return g, nil
}

func (s *service) Create(ctx context.Context, req domain.CreateGuardrailRequest, actor domain.Actor) (*domain.Guardrail, error) {
	ve := domain.NewValidationError()
	if req.GuardrailID != nil {
		ve.Add("guardrailId", "must not be supplied; IDs are server-generated")
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	g := &domain.Guardrail{
		GuardrailID:     id.New(),
		Name:            req.Name,
		Description:     req.Description,
		BlockedPhrases:  req.BlockedPhrases,
		RedirectMessage: req.RedirectMessage,
		Scope:           req.Scope,
		Active:          active,
		Created:         domain.StampNow(actor),
	}
	if err := s.repo.Put(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *service) Update(ctx context.Context, guardrailID string, req domain.UpdateGuardrailRequest, actor domain.Actor) (*domain.Guardrail, error) {
	if _, err := s.Get(ctx, guardrailID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.Description != nil {
		updates[fieldDescription] = *req.Description
	}
	if req.BlockedPhrases != nil {
		updates[fieldBlockedPhrases] = req.BlockedPhrases
	}
	if req.RedirectMessage != nil {
		updates[fieldRedirectMessage] = *req.RedirectMessage
	}
	if req.Scope != nil {
		updates[fieldScope] = *req.Scope
	}
	if req.Active != nil {
		updates[fieldActive] = *req.Active
	}
	if len(updates) == 0 {
		return s.Get(ctx, guardrailID)
	}
	updates[fieldModified] = domain.StampNow(actor)
	if err := s.repo.Update(ctx, guardrailID, updates); err != nil {
		return nil, err
	}
	return s.Get(ctx, guardrailID)
}

func (s *service) Delete(ctx context.Context, guardrailID string, actor domain.Actor) error {
	if _, err := s.Get(ctx, guardrailID); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, guardrailID, domain.StampNow(actor))
}

func (s *service) Screen(ctx context.Context, prompt string, animalGuardrailIDs []string) (*domain.Guardrail, error) {
	guardrails, err := s.repo.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	animalScoped := make(map[string]bool, len(animalGuardrailIDs))
	for _, gid := range animalGuardrailIDs {
		animalScoped[gid] = true
	}
	lowered := strings.ToLower(prompt)
	for i := range guardrails {
		g := &guardrails[i]
		if !g.Active {
			continue
		}
		if g.Scope == domain.GuardrailScopeAnimal && !animalScoped[g.GuardrailID] {
			continue
		}
		for _, phrase := range g.BlockedPhrases {
			if phrase == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(phrase)) {
				return g, nil
			}
		}
	}
	return nil, nil
}
