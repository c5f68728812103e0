package api

import (
	"net/http"
	"time"

	"github.com/prospectbd/cadence/internal/journal"
	"github.com/prospectbd/cadence/internal/metrics"
)

// recorder fans store mutation attempts out to the audit journal and the
// metric counters. Both targets are optional.
type recorder struct {
	journal *journal.Collector
	metrics *metrics.Metrics
}

// mutation records one mutation attempt against an entity. A nil opErr means
// the mutation committed.
func (rec *recorder) mutation(r *http.Request, entity, action, entityID string, opErr error) {
	if rec.metrics != nil {
		rec.metrics.IncMutation(entity, action, opErr == nil)
		if opErr != nil && isValidationError(opErr) {
			rec.metrics.IncValidationRejection(rejectionReason(opErr))
		}
	}
	rec.record(r, entity, action, entityID, opErr)
}

// timer records one timer transition attempt for a user.
func (rec *recorder) timer(r *http.Request, event, userID string, opErr error) {
	if rec.metrics != nil {
		rec.metrics.IncTimerTransition(event, opErr == nil)
	}
	rec.record(r, "timer", event, userID, opErr)
}

func (rec *recorder) record(r *http.Request, entity, action, entityID string, opErr error) {
	if rec.journal == nil {
		return
	}

	outcome := "committed"
	detail := ""
	if opErr != nil {
		outcome = "rejected"
		detail = opErr.Error()
	}

	actor := ActorFromContext(r.Context())
	rec.journal.Record(journal.Event{
		Timestamp: time.Now().UTC(),
		ActorID:   actor.ID,
		ActorRole: string(actor.Role),
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Outcome:   outcome,
		Detail:    detail,
		RequestID: RequestIDFromContext(r.Context()),
	})
}
