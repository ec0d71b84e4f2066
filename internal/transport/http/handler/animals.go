package handler

import (
	"encoding/json"
	"net/http"

	"github.com/cmz-api/internal/application/animal"
	"github.com/cmz-api/internal/domain"
	"github.com/cmz-api/internal/pkg/pagination"
	"github.com/cmz-api/internal/pkg/validate"
	"github.com/cmz-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// AnimalHandler handles animal CRUD and the chat-facing animal listing.
type AnimalHandler struct {
	svc animal.Service
}

func NewAnimalHandler(svc animal.Service) *AnimalHandler { return &AnimalHandler{svc: svc} }

// ListChatEnabled is the family-facing listing of chat-enabled animals.
func (h *AnimalHandler) ListChatEnabled(w http.ResponseWriter, r *http.Request) {
	p, err := pagination.Parse(r, pagination.MaxEntityList)
	if err != nil {
		httpError(w, err)
		return
	}
	listings, total, err := h.svc.ListChatEnabled(r.Context(), p)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paginated(p, total, listings))
}

func (h *AnimalHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := pagination.Parse(r, pagination.MaxEntityList)
	if err != nil {
		httpError(w, err)
		return
	}
	animals, total, err := h.svc.List(r.Context(), p)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paginated(p, total, animals))
}

func (h *AnimalHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AnimalHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	var req domain.CreateAnimalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpError(w, err)
		return
	}
	a, err := h.svc.Create(r.Context(), req, actorFromClaims(claims))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AnimalHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	var req domain.UpdateAnimalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	a, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req, actorFromClaims(claims))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AnimalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), actorFromClaims(claims)); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "animal deleted"})
}
