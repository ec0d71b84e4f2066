package validate

import (
	"fmt"
	"strings"

	"github.com/cmz-api/internal/domain"
	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct.
var v = validator.New()

// Struct validates the given struct using its validate tags. Violations are
// returned as a *domain.ValidationError keyed by the JSON field name.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := domain.NewValidationError()
	for _, fe := range ve {
		out.Add(jsonName(fe.Field()), fmt.Sprintf("failed '%s' validation", fe.Tag()))
	}
	return out
}

// jsonName lowercases the leading rune of a Go field name, matching the
// camelCase JSON tags used across the domain structs.
func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
