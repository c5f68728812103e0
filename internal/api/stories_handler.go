package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prospectbd/cadence/internal/sdlc"
)

// storiesHandler groups user-story HTTP handlers.
type storiesHandler struct {
	store *sdlc.Store
	rec   *recorder
}

func newStoriesHandler(store *sdlc.Store, rec *recorder) *storiesHandler {
	return &storiesHandler{store: store, rec: rec}
}

// CreateStory handles POST /api/v1/stories.
func (h *storiesHandler) CreateStory(w http.ResponseWriter, r *http.Request) {
	var input sdlc.CreateStoryInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	st, err := h.store.AddStory(input)
	h.rec.mutation(r, "user_story", "create", idOrEmpty(st != nil, func() string { return st.ID }), err)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create user story")
		return
	}

	writeJSON(w, http.StatusCreated, st)
}

// ListStories handles GET /api/v1/stories.
func (h *storiesHandler) ListStories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"user_stories": h.store.ListStories()})
}

// UpdateStory handles PUT /api/v1/stories/{id}.
func (h *storiesHandler) UpdateStory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input sdlc.UpdateStoryInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	st, err := h.store.UpdateStory(id, input)
	h.rec.mutation(r, "user_story", "update", id, err)
	if err != nil {
		if errors.Is(err, sdlc.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "user story not found")
			return
		}
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update user story")
		return
	}

	writeJSON(w, http.StatusOK, st)
}

// DeleteStory handles DELETE /api/v1/stories/{id}. Tasks referencing the
// story are removed in the same step.
func (h *storiesHandler) DeleteStory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.store.DeleteStory(id)
	h.rec.mutation(r, "user_story", "delete", id, err)
	if err != nil {
		if errors.Is(err, sdlc.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "user story not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete user story")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
