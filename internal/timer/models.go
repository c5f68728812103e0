package timer

import "time"

// Status is the lifecycle state of a time entry.
type Status string

const (
	StatusRunning Status = "Running"
	StatusPaused  Status = "Paused"
	StatusStopped Status = "Stopped"
)

// PauseSegment is an interval during which a running timer was not
// accruing time. End is nil while the pause is still open.
type PauseSegment struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

// Entry is one tracked work session. TotalSeconds is authoritative only
// once the entry is Stopped; live elapsed time is recomputed from StartTS,
// the clock, and the pause list on every display refresh.
type Entry struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	ProjectID    string         `json:"project_id"`
	StartTS      time.Time      `json:"start_ts"`
	EndTS        *time.Time     `json:"end_ts,omitempty"`
	TotalSeconds int64          `json:"total_seconds"`
	Pauses       []PauseSegment `json:"pauses"`
	Notes        string         `json:"notes,omitempty"`
	Status       Status         `json:"status"`
}

// TickInfo is the advisory display-refresh view of a live entry. It never
// reflects committed state changes.
type TickInfo struct {
	EntryID        string `json:"entry_id"`
	Status         Status `json:"status"`
	ElapsedSeconds int64  `json:"elapsed_seconds"`
	Idle           bool   `json:"idle"`
}

// Summary aggregates finalized entries over a reporting window.
type Summary struct {
	TotalSeconds int64            `json:"total_seconds"`
	ByProject    map[string]int64 `json:"by_project"`
	Count        int              `json:"count"`
}

// TimeLog is a manually logged block of hours, kept separate from the
// timer-driven entries.
type TimeLog struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	ProjectID   string  `json:"project_id"`
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
}

// LogInput holds the fields accepted when recording a manual time log.
type LogInput struct {
	UserID      string  `json:"user_id"`
	ProjectID   string  `json:"project_id"`
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
}
