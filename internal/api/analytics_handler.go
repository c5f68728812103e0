package api

import (
	"net/http"

	"github.com/prospectbd/cadence/internal/sdlc"
)

// analyticsHandler serves read-only roll-up views.
type analyticsHandler struct {
	store *sdlc.Store
}

func newAnalyticsHandler(store *sdlc.Store) *analyticsHandler {
	return &analyticsHandler{store: store}
}

// GetSprintSummary handles GET /api/v1/analytics/sprint-summary?projectId=.
func (h *analyticsHandler) GetSprintSummary(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("projectId")
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "invalid_query", "projectId is required")
		return
	}

	if _, err := h.store.Project(projectID); err != nil {
		writeError(w, http.StatusNotFound, "not_found", "project not found")
		return
	}

	writeJSON(w, http.StatusOK, h.store.SprintSummary(projectID))
}
