package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prospectbd/cadence/internal/sdlc"
)

// tasksHandler groups task-related HTTP handlers.
type tasksHandler struct {
	store *sdlc.Store
	rec   *recorder
}

func newTasksHandler(store *sdlc.Store, rec *recorder) *tasksHandler {
	return &tasksHandler{store: store, rec: rec}
}

// CreateTask handles POST /api/v1/tasks.
func (h *tasksHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var input sdlc.CreateTaskInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	t, err := h.store.AddTask(input)
	h.rec.mutation(r, "task", "create", idOrEmpty(t != nil, func() string { return t.ID }), err)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create task")
		return
	}

	writeJSON(w, http.StatusCreated, t)
}

// ListTasks handles GET /api/v1/tasks.
func (h *tasksHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": h.store.ListTasks()})
}

// UpdateTask handles PUT /api/v1/tasks/{id}. The caller's role gates level
// changes; everything else is open.
func (h *tasksHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input sdlc.UpdateTaskInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	actor := ActorFromContext(r.Context())
	t, err := h.store.UpdateTask(id, input, actor.Role)
	h.rec.mutation(r, "task", "update", id, err)
	if err != nil {
		if errors.Is(err, sdlc.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "task not found")
			return
		}
		if errors.Is(err, sdlc.ErrLevelChangeForbidden) {
			writeError(w, http.StatusForbidden, "forbidden", err.Error())
			return
		}
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update task")
		return
	}

	writeJSON(w, http.StatusOK, t)
}

// UpdateTaskStatus handles PUT /api/v1/tasks/{id}/status.
func (h *tasksHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Status sdlc.TaskStatus `json:"status"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	t, err := h.store.UpdateTaskStatus(id, req.Status)
	h.rec.mutation(r, "task", "update_status", id, err)
	if err != nil {
		if errors.Is(err, sdlc.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update task status")
		return
	}

	writeJSON(w, http.StatusOK, t)
}

// UpdateTaskAssignee handles PUT /api/v1/tasks/{id}/assignee. A null
// assignee_id unassigns the task.
func (h *tasksHandler) UpdateTaskAssignee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		AssigneeID *string `json:"assignee_id"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	t, err := h.store.UpdateTaskAssignee(id, req.AssigneeID)
	h.rec.mutation(r, "task", "update_assignee", id, err)
	if err != nil {
		if errors.Is(err, sdlc.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update task assignee")
		return
	}

	writeJSON(w, http.StatusOK, t)
}

// DeleteTask handles DELETE /api/v1/tasks/{id}.
func (h *tasksHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.store.DeleteTask(id)
	h.rec.mutation(r, "task", "delete", id, err)
	if err != nil {
		if errors.Is(err, sdlc.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
