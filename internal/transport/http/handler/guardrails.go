package handler

import (
	"encoding/json"
	"net/http"

	"github.com/cmz-api/internal/application/guardrail"
	"github.com/cmz-api/internal/domain"
	"github.com/cmz-api/internal/pkg/pagination"
	"github.com/cmz-api/internal/pkg/validate"
	"github.com/cmz-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// GuardrailHandler handles guardrail CRUD endpoints.
type GuardrailHandler struct {
	svc guardrail.Service
}

func NewGuardrailHandler(svc guardrail.Service) *GuardrailHandler {
	return &GuardrailHandler{svc: svc}
}

func (h *GuardrailHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := pagination.Parse(r, pagination.MaxEntityList)
	if err != nil {
		httpError(w, err)
		return
	}
	guardrails, total, err := h.svc.List(r.Context(), p)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paginated(p, total, guardrails))
}

func (h *GuardrailHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *GuardrailHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	var req domain.CreateGuardrailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpError(w, err)
		return
	}
	g, err := h.svc.Create(r.Context(), req, actorFromClaims(claims))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *GuardrailHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	var req domain.UpdateGuardrailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpError(w, err)
		return
	}
	g, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req, actorFromClaims(claims))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *GuardrailHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), actorFromClaims(claims)); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "guardrail deleted"})
}
