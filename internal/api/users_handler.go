package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prospectbd/cadence/internal/user"
)

// usersHandler groups user-directory HTTP handlers.
type usersHandler struct {
	users *user.Store
	rec   *recorder
}

func newUsersHandler(users *user.Store, rec *recorder) *usersHandler {
	return &usersHandler{users: users, rec: rec}
}

// CreateUser handles POST /api/v1/users.
func (h *usersHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input user.CreateUserInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	u, err := h.users.AddUser(input)
	h.rec.mutation(r, "user", "create", idOrEmpty(u != nil, func() string { return u.ID }), err)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

// ListUsers handles GET /api/v1/users.
func (h *usersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": h.users.ListUsers()})
}

// GetUser handles GET /api/v1/users/{id}.
func (h *usersHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	u, err := h.users.User(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UpdateUser handles PUT /api/v1/users/{id}.
func (h *usersHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input user.UpdateUserInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	u, err := h.users.UpdateUser(id, input)
	h.rec.mutation(r, "user", "update", id, err)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// DeleteUser handles DELETE /api/v1/users/{id}.
func (h *usersHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.users.DeleteUser(id)
	h.rec.mutation(r, "user", "delete", id, err)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
