// Package relation performs foreign-key existence checks: a referenced ID is
// valid only when the target record exists and is not soft-deleted. All
// violations for a payload are accumulated into one ValidationError; checks
// are plain reads, so a concurrent delete between check and write is not
// guarded against.
package relation

import (
	"context"
	"errors"

	"github.com/cmz-api/internal/domain"
)

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type familyStore interface {
	Get(ctx context.Context, familyID string) (*domain.Family, error)
}

type animalStore interface {
	Get(ctx context.Context, animalID string) (*domain.Animal, error)
}

type guardrailStore interface {
	Get(ctx context.Context, guardrailID string) (*domain.Guardrail, error)
}

// Checker resolves foreign keys against the entity stores.
type Checker struct {
	users      userStore
	families   familyStore
	animals    animalStore
	guardrails guardrailStore
}

type CheckerDeps struct {
	Users      userStore
	Families   familyStore
	Animals    animalStore
	Guardrails guardrailStore
}

func NewChecker(deps CheckerDeps) *Checker {
	return &Checker{
		users:      deps.Users,
		families:   deps.Families,
		animals:    deps.Animals,
		guardrails: deps.Guardrails,
	}
}

// User records a violation on ve when userID does not reference a live user.
// Infrastructure failures are returned, not recorded as violations.
func (c *Checker) User(ctx context.Context, ve *domain.ValidationError, field, userID string) error {
	u, err := c.users.Get(ctx, userID)
	if err != nil {
		if isMissing(err) {
			ve.Add(field, "referenced user "+userID+" does not exist")
			return nil
		}
		return err
	}
	if u.SoftDelete {
		ve.Add(field, "referenced user "+userID+" does not exist")
	}
	return nil
}

// Users checks a list of user IDs against one field.
func (c *Checker) Users(ctx context.Context, ve *domain.ValidationError, field string, userIDs []string) error {
	for _, id := range userIDs {
		if err := c.User(ctx, ve, field, id); err != nil {
			return err
		}
	}
	return nil
}

// Family records a violation on ve when familyID does not reference a live family.
func (c *Checker) Family(ctx context.Context, ve *domain.ValidationError, field, familyID string) error {
	f, err := c.families.Get(ctx, familyID)
	if err != nil {
		if isMissing(err) {
			ve.Add(field, "referenced family "+familyID+" does not exist")
			return nil
		}
		return err
	}
	if f.SoftDelete {
		ve.Add(field, "referenced family "+familyID+" does not exist")
	}
	return nil
}

// Animal records a violation on ve when animalID does not reference a live animal.
func (c *Checker) Animal(ctx context.Context, ve *domain.ValidationError, field, animalID string) error {
	a, err := c.animals.Get(ctx, animalID)
	if err != nil {
		if isMissing(err) {
			ve.Add(field, "referenced animal "+animalID+" does not exist")
			return nil
		}
		return err
	}
	if a.SoftDelete {
		ve.Add(field, "referenced animal "+animalID+" does not exist")
	}
	return nil
}

// Guardrails checks a list of guardrail IDs against one field.
func (c *Checker) Guardrails(ctx context.Context, ve *domain.ValidationError, field string, guardrailIDs []string) error {
	for _, id := range guardrailIDs {
		g, err := c.guardrails.Get(ctx, id)
		if err != nil {
			if isMissing(err) {
				ve.Add(field, "referenced guardrail "+id+" does not exist")
				continue
			}
			return err
		}
		if g.SoftDelete {
			ve.Add(field, "referenced guardrail "+id+" does not exist")
		}
	}
	return nil
}

func isMissing(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
