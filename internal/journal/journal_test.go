package journal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// mockSink captures flushed batches for inspection.
type mockSink struct {
	mu      sync.Mutex
	batches [][]Event
	err     error
}

func (m *mockSink) WriteBatch(_ context.Context, events []Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	batch := make([]Event, len(events))
	copy(batch, events)
	m.batches = append(m.batches, batch)
	return nil
}

func (m *mockSink) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.batches {
		n += len(b)
	}
	return n
}

func TestRecordBuffers(t *testing.T) {
	sink := &mockSink{}
	c := NewCollector(sink, 10, time.Hour)

	c.Record(Event{Entity: "project", Action: "create", Outcome: "committed"})
	c.Record(Event{Entity: "task", Action: "update", Outcome: "rejected"})

	if c.BufferLen() != 2 {
		t.Fatalf("buffer = %d, want 2", c.BufferLen())
	}
	if sink.total() != 0 {
		t.Fatal("nothing should be flushed below the batch size")
	}
}

func TestFlushOnBatchSize(t *testing.T) {
	sink := &mockSink{}
	c := NewCollector(sink, 3, time.Hour)

	for i := 0; i < 3; i++ {
		c.Record(Event{Entity: "task", Action: "update"})
	}

	if sink.total() != 3 {
		t.Fatalf("flushed = %d, want 3", sink.total())
	}
	if c.BufferLen() != 0 {
		t.Fatalf("buffer = %d, want 0 after flush", c.BufferLen())
	}
}

func TestFlushOnInterval(t *testing.T) {
	sink := &mockSink{}
	c := NewCollector(sink, 100, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Start(ctx)

	c.Record(Event{Entity: "sprint", Action: "create"})

	deadline := time.After(2 * time.Second)
	for sink.total() == 0 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for interval flush")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestStopFlushesRemainder(t *testing.T) {
	sink := &mockSink{}
	c := NewCollector(sink, 100, time.Hour)

	done := make(chan struct{})
	go func() {
		c.Start(context.Background())
		close(done)
	}()

	c.Record(Event{Entity: "team", Action: "delete"})
	c.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
	if sink.total() != 1 {
		t.Fatalf("flushed = %d, want 1", sink.total())
	}
}

func TestSinkErrorDropsBatchWithoutBlocking(t *testing.T) {
	sink := &mockSink{err: errors.New("backend down")}
	c := NewCollector(sink, 1, time.Hour)

	// Record triggers a flush that fails; the caller must not see an error
	// and the buffer must not grow without bound.
	c.Record(Event{Entity: "user", Action: "create"})
	if c.BufferLen() != 0 {
		t.Fatalf("buffer = %d, want 0 after failed flush", c.BufferLen())
	}
}
