package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prospectbd/cadence/internal/timer"
)

// timerHandler groups timer and time-reporting HTTP handlers.
type timerHandler struct {
	tracker *timer.Tracker
	rec     *recorder
}

func newTimerHandler(tracker *timer.Tracker, rec *recorder) *timerHandler {
	return &timerHandler{tracker: tracker, rec: rec}
}

type timerRequest struct {
	UserID    string `json:"user_id"`
	ProjectID string `json:"project_id"`
	Notes     string `json:"notes"`
}

// StartTimer handles POST /api/v1/timer/start. Starting while a timer is
// already active is rejected and the active entry is returned unchanged.
func (h *timerHandler) StartTimer(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	e, err := h.tracker.Start(req.UserID, req.ProjectID, req.Notes)
	h.rec.timer(r, "start", req.UserID, err)
	if err != nil {
		if errors.Is(err, timer.ErrTimerActive) {
			writeJSON(w, http.StatusConflict, map[string]interface{}{
				"error": errorDetail{Code: "timer_active", Message: err.Error()},
				"entry": e,
			})
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, e)
}

// PauseTimer handles POST /api/v1/timer/pause.
func (h *timerHandler) PauseTimer(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	e, err := h.tracker.Pause(req.UserID)
	h.rec.timer(r, "pause", req.UserID, err)
	if err != nil {
		writeTimerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, e)
}

// ResumeTimer handles POST /api/v1/timer/resume.
func (h *timerHandler) ResumeTimer(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	e, err := h.tracker.Resume(req.UserID)
	h.rec.timer(r, "resume", req.UserID, err)
	if err != nil {
		writeTimerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, e)
}

// StopTimer handles POST /api/v1/timer/stop. The entry is finalized and its
// total seconds become authoritative.
func (h *timerHandler) StopTimer(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	e, err := h.tracker.Stop(req.UserID)
	h.rec.timer(r, "stop", req.UserID, err)
	if err != nil {
		writeTimerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, e)
}

// TickTimer handles POST /api/v1/timer/tick. The response is advisory
// display state; it never mutates the entry beyond activity tracking.
func (h *timerHandler) TickTimer(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	info, err := h.tracker.Tick(req.UserID)
	if err != nil {
		writeTimerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// GetActiveTimer handles GET /api/v1/timer/active/{userID}.
func (h *timerHandler) GetActiveTimer(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	e, err := h.tracker.Active(userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "no active timer for user")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// ListTimeEntries handles GET /api/v1/time-entries?userId=|projectId=.
func (h *timerHandler) ListTimeEntries(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	projectID := r.URL.Query().Get("projectId")

	var entries []timer.Entry
	switch {
	case userID != "":
		entries = h.tracker.ListByUser(userID)
	case projectID != "":
		entries = h.tracker.ListByProject(projectID)
	default:
		writeError(w, http.StatusBadRequest, "invalid_query", "userId or projectId is required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

// GetTimeSummary handles GET /api/v1/time-summary?since=&until=. Dates are
// YYYY-MM-DD; an omitted bound is open-ended.
func (h *timerHandler) GetTimeSummary(w http.ResponseWriter, r *http.Request) {
	since, err := parseDateParam(r.URL.Query().Get("since"), time.Time{})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", "since must be YYYY-MM-DD")
		return
	}
	until, err := parseDateParam(r.URL.Query().Get("until"), time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", "until must be YYYY-MM-DD")
		return
	}

	writeJSON(w, http.StatusOK, h.tracker.Summarize(since, until))
}

// CreateTimeLog handles POST /api/v1/time-logs.
func (h *timerHandler) CreateTimeLog(w http.ResponseWriter, r *http.Request) {
	var input timer.LogInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	tl, err := h.tracker.AddLog(input)
	h.rec.mutation(r, "time_log", "create", idOrEmpty(tl != nil, func() string { return tl.ID }), err)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, tl)
}

// ListTimeLogs handles GET /api/v1/time-logs?userId=&projectId=.
func (h *timerHandler) ListTimeLogs(w http.ResponseWriter, r *http.Request) {
	logs := h.tracker.ListLogs(r.URL.Query().Get("userId"), r.URL.Query().Get("projectId"))
	writeJSON(w, http.StatusOK, map[string]interface{}{"time_logs": logs})
}

// writeTimerError maps timer state-machine guard failures to 409 and input
// errors to 422.
func writeTimerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, timer.ErrNoActiveTimer),
		errors.Is(err, timer.ErrNotRunning),
		errors.Is(err, timer.ErrNotPaused):
		writeError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, timer.ErrUserRequired),
		errors.Is(err, timer.ErrProjectRequired):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "timer operation failed")
	}
}

func parseDateParam(v string, fallback time.Time) (time.Time, error) {
	if v == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", v)
}
