package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmz-api/internal/application/guardrail"
	"github.com/cmz-api/internal/application/relation"
	"github.com/cmz-api/internal/domain"
	"github.com/cmz-api/internal/pkg/id"
	"github.com/cmz-api/internal/pkg/pagination"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldTurns    = "turns"
	fieldModified = "modified"
)

type Service interface {
	Start(ctx context.Context, req domain.StartConversationRequest, actor domain.Actor, role string) (*domain.Conversation, error)
	List(ctx context.Context, p pagination.Params, requesterID, role string) ([]domain.Conversation, int, error)
	Get(ctx context.Context, conversationID, requesterID, role string) (*domain.Conversation, error)
	AddTurn(ctx context.Context, conversationID string, req domain.TurnRequest, actor domain.Actor, role string) (*domain.Turn, error)
	Delete(ctx context.Context, conversationID string, actor domain.Actor, role string) error
}

type conversationStore interface {
	Put(ctx context.Context, c *domain.Conversation) error
	Get(ctx context.Context, conversationID string) (*domain.Conversation, error)
	Update(ctx context.Context, conversationID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, conversationID string, stamp domain.Stamp) error
	ScanAll(ctx context.Context) ([]domain.Conversation, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Conversation, error)
}

type animalStore interface {
	Get(ctx context.Context, animalID string) (*domain.Animal, error)
}

type alertPublisher interface {
	PublishAlert(ctx context.Context, subject, message string) error
}

type service struct {
	repo       conversationStore
	animals    animalStore
	guardrails guardrail.Service
	relations  *relation.Checker
	alerts     alertPublisher
}

type ServiceDeps struct {
	ConversationRepo conversationStore
	AnimalRepo       animalStore
	GuardrailSvc     guardrail.Service
	Relations        *relation.Checker
	Alerts           alertPublisher // nil disables guardrail alerting
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:       deps.ConversationRepo,
		animals:    deps.AnimalRepo,
		guardrails: deps.GuardrailSvc,
		relations:  deps.Relations,
		alerts:     deps.Alerts,
	}
}

func (s *service) Start(ctx context.Context, req domain.StartConversationRequest, actor domain.Actor, role string) (*domain.Conversation, error) {
	userID := req.UserID
	if userID == "" {
		userID = actor.UserID
	}
	// Family users can only open conversations for themselves.
	if userID != actor.UserID && !domain.RoleAtLeast(role, domain.RoleStaff) {
		return nil, fmt.Errorf("cannot start a conversation for another user: %w", domain.ErrForbidden)
	}

	ve := domain.NewValidationError()
	if req.ConversationID != nil {
		ve.Add("conversationId", "must not be supplied; IDs are server-generated")
	}
	if err := s.relations.Animal(ctx, ve, "animalId", req.AnimalID); err != nil {
		return nil, err
	}
	if err := s.relations.User(ctx, ve, "userId", userID); err != nil {
		return nil, err
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	a, err := s.animals.Get(ctx, req.AnimalID)
	if err != nil {
		return nil, err
	}
	if !a.ChatEnabled {
		return nil, fmt.Errorf("animal %s is not chat-enabled: %w", req.AnimalID, domain.ErrBadRequest)
	}

	c := &domain.Conversation{
		ConversationID: id.New(),
		AnimalID:       req.AnimalID,
		UserID:         userID,
		Turns:          []domain.Turn{},
		Created:        domain.StampNow(actor),
	}
	if err := s.repo.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) List(ctx context.Context, p pagination.Params, requesterID, role string) ([]domain.Conversation, int, error) {
	var (
		conversations []domain.Conversation
		err           error
	)
	if domain.RoleAtLeast(role, domain.RoleStaff) {
		conversations, err = s.repo.ScanAll(ctx)
	} else {
		conversations, err = s.repo.ListByUser(ctx, requesterID)
	}
	if err != nil {
		return nil, 0, err
	}
	page, total := pagination.Slice(conversations, p)
	return page, total, nil
}

func (s *service) Get(ctx context.Context, conversationID, requesterID, role string) (*domain.Conversation, error) {
	c, err := s.repo.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if c.SoftDelete {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, domain.ErrNotFound)
	}
	if c.UserID != requesterID && !domain.RoleAtLeast(role, domain.RoleStaff) {
		return nil, fmt.Errorf("not your conversation: %w", domain.ErrForbidden)
	}
	return c, nil
}

func (s *service) AddTurn(ctx context.Context, conversationID string, req domain.TurnRequest, actor domain.Actor, role string) (*domain.Turn, error) {
	c, err := s.Get(ctx, conversationID, actor.UserID, role)
	if err != nil {
		return nil, err
	}
	a, err := s.animals.Get(ctx, c.AnimalID)
	if err != nil {
		return nil, err
	}

	tripped, err := s.guardrails.Screen(ctx, req.Prompt, a.GuardrailIDs)
	if err != nil {
		return nil, err
	}

	turn := domain.Turn{
		TurnID: id.New(),
		Prompt: req.Prompt,
		Reply:  req.Reply,
		At:     time.Now().UTC(),
	}
	if tripped != nil {
		turn.Flagged = true
		turn.GuardrailID = &tripped.GuardrailID
		turn.Reply = tripped.RedirectMessage
		s.publishTripAlert(ctx, c, a, tripped)
	}

	c.Turns = append(c.Turns, turn)
	if err := s.repo.Update(ctx, conversationID, map[string]interface{}{
		fieldTurns:    c.Turns,
		fieldModified: domain.StampNow(actor),
	}); err != nil {
		return nil, err
	}
	return &turn, nil
}

func (s *service) Delete(ctx context.Context, conversationID string, actor domain.Actor, role string) error {
	if _, err := s.Get(ctx, conversationID, actor.UserID, role); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, conversationID, domain.StampNow(actor))
}

// publishTripAlert notifies ops of a guardrail trip. Alerting is best-effort;
// a publish failure must never fail the turn.
func (s *service) publishTripAlert(ctx context.Context, c *domain.Conversation, a *domain.Animal, g *domain.Guardrail) {
	if s.alerts == nil {
		return
	}
	subject := "guardrail tripped: " + g.Name
	message := fmt.Sprintf("guardrail %s tripped in conversation %s (animal %s %q, user %s)",
		g.GuardrailID, c.ConversationID, a.AnimalID, a.Name, c.UserID)
	if err := s.alerts.PublishAlert(ctx, subject, message); err != nil {
		slog.Warn("failed to publish guardrail alert", "conversation_id", c.ConversationID, "err", err)
	}
}
