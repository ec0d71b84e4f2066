package analytics

import (
	"context"
	"regexp"
	"sort"
	"time"

	"github.com/cmz-api/internal/domain"
	"github.com/cmz-api/internal/pkg/pagination"
)

// billingPeriodRe matches a YYYY-MM month identifier.
var billingPeriodRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type Service interface {
	// Logs aggregates conversation traffic per animal within the filter's
	// bounds. A conversation counts when its creation falls inside the window;
	// turn and flag counts cover only turns inside the window.
	Logs(ctx context.Context, filter domain.LogFilter, p pagination.Params) ([]domain.AnimalActivity, int, error)
}

type conversationStore interface {
	ScanAll(ctx context.Context) ([]domain.Conversation, error)
}

type animalStore interface {
	ScanAll(ctx context.Context) ([]domain.Animal, error)
}

type service struct {
	conversations conversationStore
	animals       animalStore
}

func NewService(conversations conversationStore, animals animalStore) Service {
	return &service{conversations: conversations, animals: animals}
}

// ValidateFilter checks the range and billing-period constraints, returning a
// field-keyed validation error on violation.
func ValidateFilter(filter domain.LogFilter) error {
	ve := domain.NewValidationError()
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		ve.Add("from", "must be before 'to'")
	}
	if filter.BillingPeriod != "" && !billingPeriodRe.MatchString(filter.BillingPeriod) {
		ve.Add("billingPeriod", "must match YYYY-MM")
	}
	return ve.Err()
}

func (s *service) Logs(ctx context.Context, filter domain.LogFilter, p pagination.Params) ([]domain.AnimalActivity, int, error) {
	if err := ValidateFilter(filter); err != nil {
		return nil, 0, err
	}
	from, to := filter.From, filter.To
	if filter.BillingPeriod != "" {
		start, err := time.Parse("2006-01", filter.BillingPeriod)
		if err != nil {
			// Already shape-checked by the regex; a parse failure here means an
			// out-of-range month slipped through, treat it the same way.
			ve := domain.NewValidationError()
			ve.Add("billingPeriod", "must match YYYY-MM")
			return nil, 0, ve
		}
		end := start.AddDate(0, 1, 0)
		from, to = &start, &end
	}

	conversations, err := s.conversations.ScanAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	animals, err := s.animals.ScanAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	names := make(map[string]string, len(animals))
	for i := range animals {
		names[animals[i].AnimalID] = animals[i].Name
	}

	byAnimal := make(map[string]*domain.AnimalActivity)
	for i := range conversations {
		c := &conversations[i]
		act := byAnimal[c.AnimalID]
		if act == nil {
			act = &domain.AnimalActivity{AnimalID: c.AnimalID, AnimalName: names[c.AnimalID]}
			byAnimal[c.AnimalID] = act
		}
		if inWindow(c.Created.At, from, to) {
			act.Conversations++
		}
		for _, t := range c.Turns {
			if !inWindow(t.At, from, to) {
				continue
			}
			act.Turns++
			if t.Flagged {
				act.FlaggedTurns++
			}
		}
	}

	activity := make([]domain.AnimalActivity, 0, len(byAnimal))
	for _, act := range byAnimal {
		if act.Conversations == 0 && act.Turns == 0 {
			continue
		}
		activity = append(activity, *act)
	}
	sort.Slice(activity, func(i, j int) bool { return activity[i].AnimalID < activity[j].AnimalID })

	page, total := pagination.Slice(activity, p)
	return page, total, nil
}

// inWindow reports whether t falls inside [from, to). Nil bounds are open.
func inWindow(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}
