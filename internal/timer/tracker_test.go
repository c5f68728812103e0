package timer

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeClock is a controllable time source for deterministic tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// newTestTracker creates a Tracker wired to the given fake clock.
func newTestTracker(clock *fakeClock) *Tracker {
	tr := New(10*time.Minute, 60)
	tr.now = clock.Now
	return tr
}

var t0 = time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)

func TestStartStopElapsed(t *testing.T) {
	clock := newFakeClock(t0)
	tr := newTestTracker(clock)

	e, err := tr.Start("u1", "p1", "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if e.Status != StatusRunning {
		t.Fatalf("status = %s, want Running", e.Status)
	}

	clock.Advance(15 * time.Minute)
	stopped, err := tr.Stop("u1")
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if stopped.TotalSeconds != 900 {
		t.Fatalf("total = %d, want 900", stopped.TotalSeconds)
	}
	if stopped.Status != StatusStopped {
		t.Fatalf("status = %s, want Stopped", stopped.Status)
	}
	if stopped.EndTS == nil || !stopped.EndTS.Equal(t0.Add(15*time.Minute)) {
		t.Fatalf("end ts = %v, want %v", stopped.EndTS, t0.Add(15*time.Minute))
	}
}

func TestPauseSubtractsFromTotal(t *testing.T) {
	clock := newFakeClock(t0)
	tr := newTestTracker(clock)

	if _, err := tr.Start("u1", "p1", ""); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Work 5 minutes, pause 5 minutes, work 5 more, stop.
	clock.Advance(5 * time.Minute)
	if _, err := tr.Pause("u1"); err != nil {
		t.Fatalf("pause: %v", err)
	}
	clock.Advance(5 * time.Minute)
	if _, err := tr.Resume("u1"); err != nil {
		t.Fatalf("resume: %v", err)
	}
	clock.Advance(5 * time.Minute)

	stopped, err := tr.Stop("u1")
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if stopped.TotalSeconds != 600 {
		t.Fatalf("total = %d, want 600", stopped.TotalSeconds)
	}
	if len(stopped.Pauses) != 1 {
		t.Fatalf("pauses = %d, want 1", len(stopped.Pauses))
	}
	if stopped.Pauses[0].End == nil {
		t.Fatal("pause segment should be closed")
	}
}

func TestStopWhilePausedClosesOpenSegment(t *testing.T) {
	clock := newFakeClock(t0)
	tr := newTestTracker(clock)

	if _, err := tr.Start("u1", "p1", ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(10 * time.Minute)
	if _, err := tr.Pause("u1"); err != nil {
		t.Fatalf("pause: %v", err)
	}
	clock.Advance(30 * time.Minute)

	stopped, err := tr.Stop("u1")
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	// Only the pre-pause 10 minutes count.
	if stopped.TotalSeconds != 600 {
		t.Fatalf("total = %d, want 600", stopped.TotalSeconds)
	}
	if stopped.Pauses[0].End == nil {
		t.Fatal("open pause should be closed on stop")
	}
}

func TestStartWhileActiveRejected(t *testing.T) {
	clock := newFakeClock(t0)
	tr := newTestTracker(clock)

	first, err := tr.Start("u1", "p1", "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	second, err := tr.Start("u1", "p2", "")
	if !errors.Is(err, ErrTimerActive) {
		t.Fatalf("err = %v, want ErrTimerActive", err)
	}
	// The active entry comes back unchanged.
	if second == nil || second.ID != first.ID {
		t.Fatalf("expected existing entry %q back, got %+v", first.ID, second)
	}
	if second.ProjectID != "p1" {
		t.Fatalf("project = %q, want p1", second.ProjectID)
	}
}

func TestPauseGuards(t *testing.T) {
	clock := newFakeClock(t0)
	tr := newTestTracker(clock)

	if _, err := tr.Pause("u1"); !errors.Is(err, ErrNoActiveTimer) {
		t.Fatalf("pause without timer: err = %v, want ErrNoActiveTimer", err)
	}

	if _, err := tr.Start("u1", "p1", ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := tr.Pause("u1"); err != nil {
		t.Fatalf("pause: %v", err)
	}
	// Double pause is rejected and adds no second segment.
	if _, err := tr.Pause("u1"); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("double pause: err = %v, want ErrNotRunning", err)
	}
	e, err := tr.Active("u1")
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if len(e.Pauses) != 1 {
		t.Fatalf("pauses = %d, want 1", len(e.Pauses))
	}

	if _, err := tr.Resume("u1"); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if _, err := tr.Resume("u1"); !errors.Is(err, ErrNotPaused) {
		t.Fatalf("double resume: err = %v, want ErrNotPaused", err)
	}
}

func TestStopGuards(t *testing.T) {
	clock := newFakeClock(t0)
	tr := newTestTracker(clock)

	if _, err := tr.Stop("u1"); !errors.Is(err, ErrNoActiveTimer) {
		t.Fatalf("stop without timer: err = %v, want ErrNoActiveTimer", err)
	}
}

func TestStartValidation(t *testing.T) {
	clock := newFakeClock(t0)
	tr := newTestTracker(clock)

	if _, err := tr.Start("", "p1", ""); !errors.Is(err, ErrUserRequired) {
		t.Fatalf("err = %v, want ErrUserRequired", err)
	}
	if _, err := tr.Start("u1", "", ""); !errors.Is(err, ErrProjectRequired) {
		t.Fatalf("err = %v, want ErrProjectRequired", err)
	}
}

func TestOneTimerPerUser(t *testing.T) {
	clock := newFakeClock(t0)
	tr := newTestTracker(clock)

	if _, err := tr.Start("u1", "p1", ""); err != nil {
		t.Fatalf("start u1: %v", err)
	}
	if _, err := tr.Start("u2", "p1", ""); err != nil {
		t.Fatalf("start u2: %v", err)
	}
	if tr.ActiveCount() != 2 {
		t.Fatalf("active count = %d, want 2", tr.ActiveCount())
	}

	if _, err := tr.Stop("u1"); err != nil {
		t.Fatalf("stop u1: %v", err)
	}
	if tr.ActiveCount() != 1 {
		t.Fatalf("active count = %d, want 1", tr.ActiveCount())
	}
	// u1 can start again after stopping.
	if _, err := tr.Start("u1", "p2", ""); err != nil {
		t.Fatalf("restart u1: %v", err)
	}
}

func TestTickElapsedAndIdle(t *testing.T) {
	clock := newFakeClock(t0)
	tr := newTestTracker(clock)

	if _, err := tr.Start("u1", "p1", ""); err != nil {
		t.Fatalf("start: %v", err)
	}

	clock.Advance(5 * time.Minute)
	info, err := tr.Tick("u1")
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if info.ElapsedSeconds != 300 {
		t.Fatalf("elapsed = %d, want 300", info.ElapsedSeconds)
	}
	if info.Idle {
		t.Fatal("should not be idle at 5 minutes")
	}

	// Past the 10-minute idle threshold with no activity.
	clock.Advance(6 * time.Minute)
	info, err = tr.Tick("u1")
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if !info.Idle {
		t.Fatal("should be idle at 11 minutes without activity")
	}

	// Activity resets the idle window.
	tr.Touch("u1")
	info, err = tr.Tick("u1")
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if info.Idle {
		t.Fatal("should not be idle right after activity")
	}
}

func TestTickWhilePausedFreezesElapsed(t *testing.T) {
	clock := newFakeClock(t0)
	tr := newTestTracker(clock)

	if _, err := tr.Start("u1", "p1", ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(4 * time.Minute)
	if _, err := tr.Pause("u1"); err != nil {
		t.Fatalf("pause: %v", err)
	}

	clock.Advance(20 * time.Minute)
	info, err := tr.Tick("u1")
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if info.Status != StatusPaused {
		t.Fatalf("status = %s, want Paused", info.Status)
	}
	if info.ElapsedSeconds != 240 {
		t.Fatalf("elapsed = %d, want 240", info.ElapsedSeconds)
	}
	// A paused timer never reports idle.
	if info.Idle {
		t.Fatal("paused timer should not report idle")
	}
}

func TestSummarizeFiltersShortAndWindow(t *testing.T) {
	clock := newFakeClock(t0)
	tr := newTestTracker(clock)

	// 30-second entry: finalized but below the reporting minimum.
	if _, err := tr.Start("u1", "p1", ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(30 * time.Second)
	if _, err := tr.Stop("u1"); err != nil {
		t.Fatalf("stop: %v", err)
	}

	// 10-minute entry on p1.
	if _, err := tr.Start("u1", "p1", ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(10 * time.Minute)
	if _, err := tr.Stop("u1"); err != nil {
		t.Fatalf("stop: %v", err)
	}

	// 5-minute entry on p2.
	if _, err := tr.Start("u2", "p2", ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(5 * time.Minute)
	if _, err := tr.Stop("u2"); err != nil {
		t.Fatalf("stop: %v", err)
	}

	// Still-running entry must not be counted.
	if _, err := tr.Start("u3", "p1", ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(time.Hour)

	sum := tr.Summarize(t0, t0.Add(24*time.Hour))
	if sum.Count != 2 {
		t.Fatalf("count = %d, want 2", sum.Count)
	}
	if sum.TotalSeconds != 900 {
		t.Fatalf("total = %d, want 900", sum.TotalSeconds)
	}
	if sum.ByProject["p1"] != 600 {
		t.Fatalf("p1 total = %d, want 600", sum.ByProject["p1"])
	}
	if sum.ByProject["p2"] != 300 {
		t.Fatalf("p2 total = %d, want 300", sum.ByProject["p2"])
	}

	// Window excluding everything.
	empty := tr.Summarize(t0.Add(48*time.Hour), t0.Add(72*time.Hour))
	if empty.Count != 0 || empty.TotalSeconds != 0 {
		t.Fatalf("expected empty summary, got %+v", empty)
	}
}

func TestListByUserAndProject(t *testing.T) {
	clock := newFakeClock(t0)
	tr := newTestTracker(clock)

	if _, err := tr.Start("u1", "p1", "morning"); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(2 * time.Minute)
	if _, err := tr.Stop("u1"); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if _, err := tr.Start("u1", "p2", ""); err != nil {
		t.Fatalf("start: %v", err)
	}

	byUser := tr.ListByUser("u1")
	if len(byUser) != 2 {
		t.Fatalf("entries for u1 = %d, want 2", len(byUser))
	}
	byProject := tr.ListByProject("p1")
	if len(byProject) != 1 {
		t.Fatalf("entries for p1 = %d, want 1", len(byProject))
	}
	if byProject[0].Notes != "morning" {
		t.Fatalf("notes = %q, want morning", byProject[0].Notes)
	}
}

func TestAddLogValidation(t *testing.T) {
	clock := newFakeClock(t0)
	tr := newTestTracker(clock)

	if _, err := tr.AddLog(LogInput{UserID: "u1", ProjectID: "p1", Date: "not-a-date", Hours: 2}); !errors.Is(err, ErrInvalidLogDate) {
		t.Fatalf("err = %v, want ErrInvalidLogDate", err)
	}

	tl, err := tr.AddLog(LogInput{UserID: "u1", ProjectID: "p1", Date: "2026-08-10", Hours: 2.5, Description: "code review"})
	if err != nil {
		t.Fatalf("add log: %v", err)
	}
	if tl.ID == "" {
		t.Fatal("log should get an id")
	}

	logs := tr.ListLogs("u1", "")
	if len(logs) != 1 {
		t.Fatalf("logs = %d, want 1", len(logs))
	}
	if tr.ListLogs("", "p1")[0].Hours != 2.5 {
		t.Fatal("log should be filterable by project")
	}
}
