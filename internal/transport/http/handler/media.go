package handler

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cmz-api/internal/application/media"
	"github.com/cmz-api/internal/pkg/pagination"
	"github.com/cmz-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

const (
	maxUploadBytes    = 32 << 20 // 32 MiB
	defaultPresignTTL = 15 * time.Minute
)

// MediaHandler handles media upload, listing and retrieval endpoints.
type MediaHandler struct {
	svc media.Service
}

func NewMediaHandler(svc media.Service) *MediaHandler { return &MediaHandler{svc: svc} }

// Upload accepts a multipart form with a "file" part and an optional
// "animalId" field associating the object with an animal.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "missing file part")
		return
	}
	defer file.Close()

	input := media.UploadInput{
		Reader:      file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}
	if animalID := r.FormValue("animalId"); animalID != "" {
		input.AnimalID = &animalID
	}

	m, err := h.svc.Upload(r.Context(), input, actorFromClaims(claims))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := pagination.Parse(r, pagination.MaxEntityList)
	if err != nil {
		httpError(w, err)
		return
	}
	items, total, err := h.svc.List(r.Context(), p, r.URL.Query().Get("animalId"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paginated(p, total, items))
}

// Download streams the stored object back to the caller.
func (h *MediaHandler) Download(w http.ResponseWriter, r *http.Request) {
	rc, m, err := h.svc.Download(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	defer rc.Close()

	if m.ContentType != "" {
		w.Header().Set("Content-Type", m.ContentType)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", m.Filename))
	w.WriteHeader(http.StatusOK)
	io.Copy(w, rc) //nolint:errcheck // response already committed
}

// PresignedURL returns a short-lived direct S3 URL for the object.
func (h *MediaHandler) PresignedURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.PresignedURL(r.Context(), chi.URLParam(r, "id"), defaultPresignTTL)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), actorFromClaims(claims)); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "media deleted"})
}
