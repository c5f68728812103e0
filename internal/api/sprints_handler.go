package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prospectbd/cadence/internal/sdlc"
)

// sprintsHandler groups sprint-related HTTP handlers.
type sprintsHandler struct {
	store *sdlc.Store
	rec   *recorder
}

func newSprintsHandler(store *sdlc.Store, rec *recorder) *sprintsHandler {
	return &sprintsHandler{store: store, rec: rec}
}

// CreateSprint handles POST /api/v1/sprints.
func (h *sprintsHandler) CreateSprint(w http.ResponseWriter, r *http.Request) {
	var input sdlc.CreateSprintInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	sp, err := h.store.AddSprint(input)
	h.rec.mutation(r, "sprint", "create", idOrEmpty(sp != nil, func() string { return sp.ID }), err)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create sprint")
		return
	}

	writeJSON(w, http.StatusCreated, sp)
}

// ListSprints handles GET /api/v1/sprints.
func (h *sprintsHandler) ListSprints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"sprints": h.store.ListSprints()})
}

// UpdateSprint handles PUT /api/v1/sprints/{id}. The fully merged sprint is
// re-checked against the hierarchy rules before committing.
func (h *sprintsHandler) UpdateSprint(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input sdlc.UpdateSprintInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	sp, err := h.store.UpdateSprint(id, input)
	h.rec.mutation(r, "sprint", "update", id, err)
	if err != nil {
		if errors.Is(err, sdlc.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "sprint not found")
			return
		}
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update sprint")
		return
	}

	writeJSON(w, http.StatusOK, sp)
}

// DeleteSprint handles DELETE /api/v1/sprints/{id}.
func (h *sprintsHandler) DeleteSprint(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.store.DeleteSprint(id)
	h.rec.mutation(r, "sprint", "delete", id, err)
	if err != nil {
		if errors.Is(err, sdlc.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "sprint not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete sprint")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
