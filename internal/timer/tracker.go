package timer

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Guard errors. Each one means the requested transition was a no-op: the
// tracker's state is exactly what it was before the call.
var (
	ErrUserRequired    = errors.New("user_id is required")
	ErrProjectRequired = errors.New("project_id is required")
	ErrTimerActive     = errors.New("user already has an active time entry")
	ErrNoActiveTimer   = errors.New("user has no active time entry")
	ErrNotRunning      = errors.New("active time entry is not running")
	ErrNotPaused       = errors.New("active time entry is not paused")
	ErrInvalidLogDate  = errors.New("date must be a valid calendar date")
)

const logDateLayout = "2006-01-02"

// Tracker owns the per-user timer state machine: at most one Running or
// Paused entry per user, with pause-segment accounting. All transitions
// are synchronous snapshot-to-snapshot updates under one mutex.
type Tracker struct {
	mu           sync.Mutex
	entries      []Entry
	activeByUser map[string]string
	lastActivity map[string]time.Time
	logs         []TimeLog

	idleThreshold    time.Duration
	minReportSeconds int64
	now              func() time.Time // injectable clock for testing
}

// New creates a Tracker. idleThreshold controls the advisory idle flag on
// Tick; minReportSeconds is the reporting-layer floor below which stopped
// entries are excluded from summaries (they are still stored).
func New(idleThreshold time.Duration, minReportSeconds int64) *Tracker {
	return &Tracker{
		activeByUser:     make(map[string]string),
		lastActivity:     make(map[string]time.Time),
		idleThreshold:    idleThreshold,
		minReportSeconds: minReportSeconds,
		now:              time.Now,
	}
}

// activeEntry returns the user's active entry, or nil. Must be called with
// t.mu held.
func (t *Tracker) activeEntry(userID string) *Entry {
	id, ok := t.activeByUser[userID]
	if !ok {
		return nil
	}
	for i := range t.entries {
		if t.entries[i].ID == id {
			return &t.entries[i]
		}
	}
	return nil
}

// Start begins a new entry for the user. If the user already has an active
// entry the call is a no-op: the existing entry is returned untouched
// together with ErrTimerActive, and nothing is replaced.
func (t *Tracker) Start(userID, projectID, notes string) (*Entry, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if projectID == "" {
		return nil, ErrProjectRequired
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if cur := t.activeEntry(userID); cur != nil {
		out := cloneEntry(*cur)
		return &out, ErrTimerActive
	}

	now := t.now()
	e := Entry{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProjectID: projectID,
		StartTS:   now,
		Pauses:    []PauseSegment{},
		Notes:     notes,
		Status:    StatusRunning,
	}
	t.entries = append(t.entries, e)
	t.activeByUser[userID] = e.ID
	t.lastActivity[userID] = now

	out := cloneEntry(e)
	return &out, nil
}

// Pause opens a new pause segment on the user's running entry. Pausing an
// already-paused entry is a no-op (no duplicate segment is opened).
func (t *Tracker) Pause(userID string) (*Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := t.activeEntry(userID)
	if cur == nil {
		return nil, ErrNoActiveTimer
	}
	if cur.Status != StatusRunning {
		out := cloneEntry(*cur)
		return &out, ErrNotRunning
	}

	now := t.now()
	cur.Pauses = append(cur.Pauses, PauseSegment{Start: now})
	cur.Status = StatusPaused
	t.lastActivity[userID] = now

	out := cloneEntry(*cur)
	return &out, nil
}

// Resume closes the most recent open pause segment and puts the entry back
// into Running.
func (t *Tracker) Resume(userID string) (*Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := t.activeEntry(userID)
	if cur == nil {
		return nil, ErrNoActiveTimer
	}
	if cur.Status != StatusPaused {
		out := cloneEntry(*cur)
		return &out, ErrNotPaused
	}

	now := t.now()
	closeOpenPause(cur, now)
	cur.Status = StatusRunning
	t.lastActivity[userID] = now

	out := cloneEntry(*cur)
	return &out, nil
}

// Stop finalizes the user's active entry: any open pause segment is
// closed, TotalSeconds is fixed to whole seconds floored at zero, and the
// entry becomes immutable. A later Start creates a fresh entry.
func (t *Tracker) Stop(userID string) (*Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := t.activeEntry(userID)
	if cur == nil {
		return nil, ErrNoActiveTimer
	}

	now := t.now()
	closeOpenPause(cur, now)
	cur.EndTS = &now
	cur.TotalSeconds = flooredSeconds(now.Sub(cur.StartTS) - pausedTotal(*cur, now))
	cur.Status = StatusStopped
	delete(t.activeByUser, userID)
	delete(t.lastActivity, userID)

	out := cloneEntry(*cur)
	return &out, nil
}

// Tick reports the live elapsed time of the user's active entry. It never
// changes committed state; the idle flag is advisory and set when a
// running entry has seen no activity for the configured threshold.
func (t *Tracker) Tick(userID string) (TickInfo, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := t.activeEntry(userID)
	if cur == nil {
		return TickInfo{}, ErrNoActiveTimer
	}

	now := t.now()
	info := TickInfo{
		EntryID:        cur.ID,
		Status:         cur.Status,
		ElapsedSeconds: flooredSeconds(now.Sub(cur.StartTS) - pausedTotal(*cur, now)),
	}
	if cur.Status == StatusRunning {
		if last, ok := t.lastActivity[userID]; ok && now.Sub(last) > t.idleThreshold {
			info.Idle = true
		}
	}
	return info, nil
}

// Touch records user activity for idle detection.
func (t *Tracker) Touch(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.activeEntry(userID) != nil {
		t.lastActivity[userID] = t.now()
	}
}

// Active returns the user's in-flight entry, if any.
func (t *Tracker) Active(userID string) (*Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := t.activeEntry(userID)
	if cur == nil {
		return nil, ErrNoActiveTimer
	}
	out := cloneEntry(*cur)
	return &out, nil
}

// ListByUser returns all entries for a user, including live ones.
func (t *Tracker) ListByUser(userID string) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Entry, 0)
	for _, e := range t.entries {
		if e.UserID == userID {
			out = append(out, cloneEntry(e))
		}
	}
	return out
}

// ListByProject returns all entries for a project, including live ones.
func (t *Tracker) ListByProject(projectID string) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Entry, 0)
	for _, e := range t.entries {
		if e.ProjectID == projectID {
			out = append(out, cloneEntry(e))
		}
	}
	return out
}

// Summarize aggregates finalized entries whose [start, end] falls inside
// the window. Stopped entries shorter than the configured minimum are
// excluded here, in the reporting view only; they remain stored.
func (t *Tracker) Summarize(since, until time.Time) Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	sum := Summary{ByProject: make(map[string]int64)}
	for _, e := range t.entries {
		if e.Status != StatusStopped || e.EndTS == nil {
			continue
		}
		if e.StartTS.Before(since) || e.EndTS.After(until) {
			continue
		}
		if e.TotalSeconds < t.minReportSeconds {
			continue
		}
		sum.TotalSeconds += e.TotalSeconds
		sum.ByProject[e.ProjectID] += e.TotalSeconds
		sum.Count++
	}
	return sum
}

// AddLog records a manual time log.
func (t *Tracker) AddLog(input LogInput) (*TimeLog, error) {
	if input.UserID == "" {
		return nil, ErrUserRequired
	}
	if input.ProjectID == "" {
		return nil, ErrProjectRequired
	}
	if _, err := time.Parse(logDateLayout, input.Date); err != nil {
		return nil, ErrInvalidLogDate
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	log := TimeLog{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		ProjectID:   input.ProjectID,
		Date:        input.Date,
		Hours:       input.Hours,
		Description: input.Description,
	}
	t.logs = append(t.logs, log)
	out := log
	return &out, nil
}

// ListLogs returns manual logs, optionally filtered by user and project.
func (t *Tracker) ListLogs(userID, projectID string) []TimeLog {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]TimeLog, 0)
	for _, l := range t.logs {
		if userID != "" && l.UserID != userID {
			continue
		}
		if projectID != "" && l.ProjectID != projectID {
			continue
		}
		out = append(out, l)
	}
	return out
}

// ActiveCount reports the number of in-flight entries, for metrics.
func (t *Tracker) ActiveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.activeByUser)
}

// closeOpenPause sets the end of the most recent open pause segment.
func closeOpenPause(e *Entry, now time.Time) {
	for i := len(e.Pauses) - 1; i >= 0; i-- {
		if e.Pauses[i].End == nil {
			end := now
			e.Pauses[i].End = &end
			return
		}
	}
}

// pausedTotal sums the pause durations of an entry. An open segment (only
// possible while Paused) counts up to now.
func pausedTotal(e Entry, now time.Time) time.Duration {
	var total time.Duration
	for _, p := range e.Pauses {
		end := p.Start
		if p.End != nil {
			end = *p.End
		} else if e.Status == StatusPaused {
			end = now
		}
		if d := end.Sub(p.Start); d > 0 {
			total += d
		}
	}
	return total
}

// flooredSeconds converts a duration to whole seconds, clamped at zero.
func flooredSeconds(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}

func cloneEntry(e Entry) Entry {
	if e.EndTS != nil {
		v := *e.EndTS
		e.EndTS = &v
	}
	pauses := make([]PauseSegment, len(e.Pauses))
	for i, p := range e.Pauses {
		if p.End != nil {
			v := *p.End
			p.End = &v
		}
		pauses[i] = p
	}
	e.Pauses = pauses
	return e
}
