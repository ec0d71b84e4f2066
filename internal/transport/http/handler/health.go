package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-chi/chi/v5"
)

// HealthHandler handles health-check endpoints.
type HealthHandler struct {
	dynamo *dynamodb.Client
}

func NewHealthHandler(dynamo *dynamodb.Client) *HealthHandler {
	return &HealthHandler{dynamo: dynamo}
}

type healthReport struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "ping":
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "pong"})
	case "report":
		h.report(w, r)
	default:
		writeError(w, http.StatusBadRequest, "validation_error", "unknown action")
	}
}

// report probes DynamoDB with a bounded ListTables call. The API stays "up"
// even when storage is degraded, so this always answers 200 with per-component
// status.
func (h *HealthHandler) report(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	components := map[string]string{"api": "ok"}
	status := "ok"
	limit := int32(1)
	if _, err := h.dynamo.ListTables(ctx, &dynamodb.ListTablesInput{Limit: &limit}); err != nil {
		components["dynamodb"] = "unreachable"
		status = "degraded"
	} else {
		components["dynamodb"] = "ok"
	}

	writeJSON(w, http.StatusOK, healthReport{Status: status, Components: components})
}
