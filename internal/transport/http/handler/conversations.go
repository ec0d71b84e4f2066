package handler

import (
	"encoding/json"
	"net/http"

	"github.com/cmz-api/internal/application/conversation"
	"github.com/cmz-api/internal/domain"
	"github.com/cmz-api/internal/pkg/pagination"
	"github.com/cmz-api/internal/pkg/validate"
	"github.com/cmz-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// ConversationHandler handles conversation lifecycle endpoints.
type ConversationHandler struct {
	svc conversation.Service
}

func NewConversationHandler(svc conversation.Service) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

func (h *ConversationHandler) Start(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	var req domain.StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpError(w, err)
		return
	}
	c, err := h.svc.Start(r.Context(), req, actorFromClaims(claims), claims.Role)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	p, err := pagination.Parse(r, pagination.MaxEntityList)
	if err != nil {
		httpError(w, err)
		return
	}
	conversations, total, err := h.svc.List(r.Context(), p, claims.UserID, claims.Role)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paginated(p, total, conversations))
}

func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	c, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"), claims.UserID, claims.Role)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ConversationHandler) AddTurn(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	var req domain.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		httpError(w, err)
		return
	}
	turn, err := h.svc.AddTurn(r.Context(), chi.URLParam(r, "id"), req, actorFromClaims(claims), claims.Role)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, turn)
}

func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), actorFromClaims(claims), claims.Role); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "conversation deleted"})
}
