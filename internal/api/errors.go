package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/prospectbd/cadence/internal/sdlc"
)

// maxBodySize is the maximum allowed request body size (1 MB).
const maxBodySize = 1 << 20

// errorEnvelope is the standard error response shape.
type errorEnvelope struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a JSON error response with the given status code.
func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorEnvelope{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// readJSON decodes the request body into v, enforcing a size limit.
func readJSON(r *http.Request, v interface{}) error {
	lr := io.LimitReader(r.Body, maxBodySize)
	return json.NewDecoder(lr).Decode(v)
}

// isValidationError checks whether the error is a known validation error from
// the hierarchy or placement rules.
func isValidationError(err error) bool {
	return errors.Is(err, sdlc.ErrInvalidDateRange) ||
		errors.Is(err, sdlc.ErrUnknownProject) ||
		errors.Is(err, sdlc.ErrUnknownModule) ||
		errors.Is(err, sdlc.ErrUnknownSprint) ||
		errors.Is(err, sdlc.ErrProjectScopeFields) ||
		errors.Is(err, sdlc.ErrModuleOutsideProject) ||
		errors.Is(err, sdlc.ErrInvalidParentSprint) ||
		errors.Is(err, sdlc.ErrSprintOutsideParent) ||
		errors.Is(err, sdlc.ErrSprintWrongProject) ||
		errors.Is(err, sdlc.ErrSprintWrongModule)
}

// rejectionReason returns a stable label for a validation rejection, used as
// a metric label value.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, sdlc.ErrInvalidDateRange):
		return "invalid_date_range"
	case errors.Is(err, sdlc.ErrUnknownProject):
		return "unknown_project"
	case errors.Is(err, sdlc.ErrUnknownModule):
		return "unknown_module"
	case errors.Is(err, sdlc.ErrUnknownSprint):
		return "unknown_sprint"
	case errors.Is(err, sdlc.ErrProjectScopeFields):
		return "project_scope_fields"
	case errors.Is(err, sdlc.ErrModuleOutsideProject):
		return "module_outside_project"
	case errors.Is(err, sdlc.ErrInvalidParentSprint):
		return "invalid_parent_sprint"
	case errors.Is(err, sdlc.ErrSprintOutsideParent):
		return "sprint_outside_parent"
	case errors.Is(err, sdlc.ErrSprintWrongProject):
		return "sprint_wrong_project"
	case errors.Is(err, sdlc.ErrSprintWrongModule):
		return "sprint_wrong_module"
	case errors.Is(err, sdlc.ErrLevelChangeForbidden):
		return "level_change_forbidden"
	default:
		return "other"
	}
}
