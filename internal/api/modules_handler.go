package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prospectbd/cadence/internal/sdlc"
)

// modulesHandler groups module-related HTTP handlers.
type modulesHandler struct {
	store *sdlc.Store
	rec   *recorder
}

func newModulesHandler(store *sdlc.Store, rec *recorder) *modulesHandler {
	return &modulesHandler{store: store, rec: rec}
}

// CreateModule handles POST /api/v1/modules.
func (h *modulesHandler) CreateModule(w http.ResponseWriter, r *http.Request) {
	var input sdlc.CreateModuleInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	m, err := h.store.AddModule(input)
	h.rec.mutation(r, "module", "create", idOrEmpty(m != nil, func() string { return m.ID }), err)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create module")
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

// ListModules handles GET /api/v1/modules.
func (h *modulesHandler) ListModules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"modules": h.store.ListModules()})
}

// UpdateModule handles PUT /api/v1/modules/{id}.
func (h *modulesHandler) UpdateModule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input sdlc.UpdateModuleInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	m, err := h.store.UpdateModule(id, input)
	h.rec.mutation(r, "module", "update", id, err)
	if err != nil {
		if errors.Is(err, sdlc.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "module not found")
			return
		}
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update module")
		return
	}

	writeJSON(w, http.StatusOK, m)
}

// DeleteModule handles DELETE /api/v1/modules/{id}. Stories, tasks, and
// module-scoped sprints under the module are removed in the same step.
func (h *modulesHandler) DeleteModule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.store.DeleteModule(id)
	h.rec.mutation(r, "module", "delete", id, err)
	if err != nil {
		if errors.Is(err, sdlc.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "module not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete module")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
