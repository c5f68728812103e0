package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prospectbd/cadence/internal/sdlc"
)

// projectsHandler groups project-related HTTP handlers.
type projectsHandler struct {
	store *sdlc.Store
	rec   *recorder
}

func newProjectsHandler(store *sdlc.Store, rec *recorder) *projectsHandler {
	return &projectsHandler{store: store, rec: rec}
}

// CreateProject handles POST /api/v1/projects.
func (h *projectsHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var input sdlc.CreateProjectInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	p, err := h.store.AddProject(input)
	h.rec.mutation(r, "project", "create", idOrEmpty(p != nil, func() string { return p.ID }), err)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create project")
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

// ListProjects handles GET /api/v1/projects.
func (h *projectsHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"projects": h.store.ListProjects()})
}

// GetProject handles GET /api/v1/projects/{id}.
func (h *projectsHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.store.Project(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "project not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateProject handles PUT /api/v1/projects/{id}.
func (h *projectsHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input sdlc.UpdateProjectInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	p, err := h.store.UpdateProject(id, input)
	h.rec.mutation(r, "project", "update", id, err)
	if err != nil {
		if errors.Is(err, sdlc.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "project not found")
			return
		}
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update project")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// DeleteProject handles DELETE /api/v1/projects/{id}. Modules, stories,
// sprints, and story-bound tasks under the project are removed in the same
// step.
func (h *projectsHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.store.DeleteProject(id)
	h.rec.mutation(r, "project", "delete", id, err)
	if err != nil {
		if errors.Is(err, sdlc.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete project")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetProjectAggregate handles GET /api/v1/projects/{id}/aggregate.
func (h *projectsHandler) GetProjectAggregate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	agg, err := h.store.ProjectAggregate(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "project not found")
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

// idOrEmpty avoids dereferencing a nil result when recording a failed create.
func idOrEmpty(ok bool, id func() string) string {
	if !ok {
		return ""
	}
	return id()
}
