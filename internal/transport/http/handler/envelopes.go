package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cmz-api/internal/domain"
	jwtinfra "github.com/cmz-api/internal/infrastructure/jwt"
	"github.com/cmz-api/internal/pkg/pagination"
)

// ErrorEnvelope is the single error schema for every endpoint.
type ErrorEnvelope struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

// MessageEnvelope wraps plain acknowledgement responses.
type MessageEnvelope struct {
	Message string `json:"message"`
}

// PaginatedEnvelope wraps every paginated list response.
type PaginatedEnvelope struct {
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	Total      int         `json:"total"`
	TotalPages int         `json:"totalPages"`
	Data       interface{} `json:"data"`
}

func paginated(p pagination.Params, total int, data interface{}) PaginatedEnvelope {
	return PaginatedEnvelope{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: pagination.TotalPages(total, p.PageSize),
		Data:       data,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorEnvelope{Code: code, Message: msg})
}

// httpError maps domain errors to the error envelope and conventional status
// codes. Unknown errors become an opaque 500 so infrastructure details never
// leak to clients.
func httpError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, ErrorEnvelope{
			Code:    "validation_error",
			Message: "validation failed",
			Details: ve.Fields,
		})
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// actorFromClaims builds the audit-stamp identity for the authenticated caller.
func actorFromClaims(c *jwtinfra.Claims) domain.Actor {
	return domain.Actor{UserID: c.UserID, Email: c.Email}
}
