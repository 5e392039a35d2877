package handler

import (
	"net/http"
	"strconv"

	"github.com/smokespecialist/smokespecialist/internal/api/middleware"
	"github.com/smokespecialist/smokespecialist/internal/api/response"
	"github.com/smokespecialist/smokespecialist/internal/audit"
)

// AuditHandler serves the access log for the session's patient.
type AuditHandler struct {
	repo audit.Repository
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(repo audit.Repository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// ListAccessLog handles GET /v1/access-log - recent accesses to the
// session patient's dashboard, newest first.
func (h *AuditHandler) ListAccessLog(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetSession(r.Context())
	if claims == nil {
		response.Unauthorized(w, r, "missing session")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.BadRequest(w, r, "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}

	events, err := h.repo.ListByPatient(r.Context(), claims.PatientID, audit.ListOptions{Limit: limit})
	if err != nil {
		response.InternalError(w, r, "access log is unavailable")
		return
	}

	if events == nil {
		events = []audit.Event{}
	}
	response.JSON(w, r, http.StatusOK, events)
}
