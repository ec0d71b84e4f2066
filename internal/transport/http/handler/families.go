package handler

import (
	"encoding/json"
	"net/http"

	"github.com/cmz-api/internal/application/family"
	"github.com/cmz-api/internal/domain"
	"github.com/cmz-api/internal/pkg/pagination"
	"github.com/cmz-api/internal/pkg/validate"
	"github.com/cmz-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// FamilyHandler handles family CRUD endpoints.
type FamilyHandler struct {
	svc family.Service
}

func NewFamilyHandler(svc family.Service) *FamilyHandler { return &FamilyHandler{svc: svc} }

func (h *FamilyHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := pagination.Parse(r, pagination.MaxEntityList)
	if err != nil {
		httpError(w, err)
		return
	}
	families, total, err := h.svc.List(r.Context(), p)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paginated(p, total, families))
}

func (h *FamilyHandler) Get(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FamilyHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	var req domain.CreateFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpError(w, err)
		return
	}
	f, err := h.svc.Create(r.Context(), req, actorFromClaims(claims))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *FamilyHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	var req domain.UpdateFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	f, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req, actorFromClaims(claims))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FamilyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), actorFromClaims(claims)); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "family deleted"})
}
