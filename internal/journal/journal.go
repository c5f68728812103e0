package journal

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Event is a single audit record of a store mutation attempt.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	Outcome   string    `json:"outcome"` // "committed" or "rejected"
	Detail    string    `json:"detail,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// Sink receives drained event batches. It exists to allow testing without
// a real log backend.
type Sink interface {
	WriteBatch(ctx context.Context, events []Event) error
}

// Collector buffers audit events in memory and flushes them to the sink in
// batches. It is safe for concurrent use.
type Collector struct {
	sink          Sink
	buffer        []Event
	mu            sync.Mutex
	batchSize     int
	flushInterval time.Duration
	done          chan struct{}
}

// NewCollector creates a Collector that flushes when the buffer reaches
// batchSize or every flushInterval, whichever comes first.
func NewCollector(sink Sink, batchSize int, flushInterval time.Duration) *Collector {
	return &Collector{
		sink:          sink,
		buffer:        make([]Event, 0, batchSize),
		batchSize:     batchSize,
		flushInterval: flushInterval,
		done:          make(chan struct{}),
	}
}

// Start begins a background goroutine that flushes buffered events on a
// timer. It blocks until Stop is called or the context is cancelled.
func (c *Collector) Start(ctx context.Context) {
	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.flush()
		case <-ctx.Done():
			c.flush()
			return
		case <-c.done:
			c.flush()
			return
		}
	}
}

// Record adds an event to the buffer. If the buffer reaches batchSize, a
// flush is triggered immediately.
func (c *Collector) Record(ev Event) {
	c.mu.Lock()
	c.buffer = append(c.buffer, ev)
	shouldFlush := len(c.buffer) >= c.batchSize
	c.mu.Unlock()

	if shouldFlush {
		c.flush()
	}
}

// BufferLen reports the current buffer size, for metrics.
func (c *Collector) BufferLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buffer)
}

// flush drains all buffered events and writes them to the sink. Errors are
// logged rather than returned so callers are never blocked on audit.
func (c *Collector) flush() {
	c.mu.Lock()
	if len(c.buffer) == 0 {
		c.mu.Unlock()
		return
	}
	batch := c.buffer
	c.buffer = make([]Event, 0, c.batchSize)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.sink.WriteBatch(ctx, batch); err != nil {
		slog.Error("failed to flush audit events", "count", len(batch), "error", err)
	}
}

// Stop signals the background goroutine to exit and performs a final flush.
func (c *Collector) Stop() {
	close(c.done)
}

// SlogSink writes each event as a structured "audit" log line.
type SlogSink struct{}

func NewSlogSink() *SlogSink {
	return &SlogSink{}
}

func (s *SlogSink) WriteBatch(_ context.Context, events []Event) error {
	for _, ev := range events {
		slog.Info("audit",
			"timestamp", ev.Timestamp,
			"actor_id", ev.ActorID,
			"actor_role", ev.ActorRole,
			"action", ev.Action,
			"entity", ev.Entity,
			"entity_id", ev.EntityID,
			"outcome", ev.Outcome,
			"detail", ev.Detail,
			"request_id", ev.RequestID,
		)
	}
	return nil
}
