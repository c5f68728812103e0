package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prospectbd/cadence/internal/team"
)

// teamsHandler groups team, membership, and sub-team HTTP handlers.
type teamsHandler struct {
	teams *team.Store
	rec   *recorder
}

func newTeamsHandler(teams *team.Store, rec *recorder) *teamsHandler {
	return &teamsHandler{teams: teams, rec: rec}
}

// CreateTeam handles POST /api/v1/teams.
func (h *teamsHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var input team.CreateTeamInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	t, err := h.teams.AddTeam(input)
	h.rec.mutation(r, "team", "create", idOrEmpty(t != nil, func() string { return t.ID }), err)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, t)
}

// ListTeams handles GET /api/v1/teams.
func (h *teamsHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"teams": h.teams.ListTeams()})
}

// GetTeam handles GET /api/v1/teams/{id}.
func (h *teamsHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	t, err := h.teams.Team(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "team not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// UpdateTeam handles PUT /api/v1/teams/{id}.
func (h *teamsHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input team.UpdateTeamInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	t, err := h.teams.UpdateTeam(id, input)
	h.rec.mutation(r, "team", "update", id, err)
	if err != nil {
		if errors.Is(err, team.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "team not found")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, t)
}

// DeleteTeam handles DELETE /api/v1/teams/{id}.
func (h *teamsHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.teams.DeleteTeam(id)
	h.rec.mutation(r, "team", "delete", id, err)
	if err != nil {
		if errors.Is(err, team.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "team not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete team")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddTeamMember handles POST /api/v1/teams/{id}/members.
func (h *teamsHandler) AddTeamMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var m team.Member
	if err := readJSON(r, &m); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	t, err := h.teams.AddMember(id, m)
	h.rec.mutation(r, "team_member", "create", m.UserID, err)
	if err != nil {
		if errors.Is(err, team.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "team not found")
			return
		}
		if errors.Is(err, team.ErrMemberExists) {
			writeError(w, http.StatusConflict, "conflict", err.Error())
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, t)
}

// UpdateTeamMember handles PUT /api/v1/teams/{id}/members/{userId}.
func (h *teamsHandler) UpdateTeamMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := chi.URLParam(r, "userId")

	var input team.UpdateMemberInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	t, err := h.teams.UpdateMember(id, userID, input)
	h.rec.mutation(r, "team_member", "update", userID, err)
	if err != nil {
		if errors.Is(err, team.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "team or member not found")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, t)
}

// RemoveTeamMember handles DELETE /api/v1/teams/{id}/members/{userId}. The
// user is also dropped from every sub-team of the team.
func (h *teamsHandler) RemoveTeamMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := chi.URLParam(r, "userId")

	t, err := h.teams.RemoveMember(id, userID)
	h.rec.mutation(r, "team_member", "delete", userID, err)
	if err != nil {
		if errors.Is(err, team.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "team or member not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to remove member")
		return
	}

	writeJSON(w, http.StatusOK, t)
}

// AddSubTeam handles POST /api/v1/teams/{id}/sub-teams.
func (h *teamsHandler) AddSubTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input team.CreateSubTeamInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	t, err := h.teams.AddSubTeam(id, input)
	h.rec.mutation(r, "sub_team", "create", input.ID, err)
	if err != nil {
		if errors.Is(err, team.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "team not found")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, t)
}

// AddSubTeamMember handles PUT /api/v1/teams/{id}/sub-teams/{subTeamId}/members/{userId}.
// The user must already be a member of the parent team.
func (h *teamsHandler) AddSubTeamMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	subTeamID := chi.URLParam(r, "subTeamId")
	userID := chi.URLParam(r, "userId")

	t, err := h.teams.AddSubTeamMember(id, subTeamID, userID)
	h.rec.mutation(r, "sub_team_member", "create", userID, err)
	if err != nil {
		if errors.Is(err, team.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "team or sub-team not found")
			return
		}
		if errors.Is(err, team.ErrMemberExists) {
			writeError(w, http.StatusConflict, "conflict", err.Error())
			return
		}
		if errors.Is(err, team.ErrNotTeamMember) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to add sub-team member")
		return
	}

	writeJSON(w, http.StatusOK, t)
}

// RemoveSubTeamMember handles DELETE /api/v1/teams/{id}/sub-teams/{subTeamId}/members/{userId}.
func (h *teamsHandler) RemoveSubTeamMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	subTeamID := chi.URLParam(r, "subTeamId")
	userID := chi.URLParam(r, "userId")

	t, err := h.teams.RemoveSubTeamMember(id, subTeamID, userID)
	h.rec.mutation(r, "sub_team_member", "delete", userID, err)
	if err != nil {
		if errors.Is(err, team.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "team or sub-team not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to remove sub-team member")
		return
	}

	writeJSON(w, http.StatusOK, t)
}
