package handler

import (
	"net/http"
	"time"

	"github.com/cmz-api/internal/application/analytics"
	"github.com/cmz-api/internal/domain"
	"github.com/cmz-api/internal/pkg/pagination"
)

// AnalyticsHandler handles activity-log reporting endpoints.
type AnalyticsHandler struct {
	svc analytics.Service
}

func NewAnalyticsHandler(svc analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Logs reports per-animal conversation activity. The window comes from
// "from"/"to" (RFC 3339) or a "billingPeriod" (YYYY-MM) query parameter.
func (h *AnalyticsHandler) Logs(w http.ResponseWriter, r *http.Request) {
	p, err := pagination.Parse(r, pagination.MaxLogList)
	if err != nil {
		httpError(w, err)
		return
	}

	ve := domain.NewValidationError()
	filter := domain.LogFilter{BillingPeriod: r.URL.Query().Get("billingPeriod")}
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			ve.Add("from", "must be an RFC 3339 timestamp")
		} else {
			filter.From = &t
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			ve.Add("to", "must be an RFC 3339 timestamp")
		} else {
			filter.To = &t
		}
	}
	if err := ve.Err(); err != nil {
		httpError(w, err)
		return
	}

	activity, total, err := h.svc.Logs(r.Context(), filter, p)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paginated(p, total, activity))
}
