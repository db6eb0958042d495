package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"smartbudget/internal/amqp"
	"smartbudget/internal/log"
	"smartbudget/internal/storage"
)

// EventRecorder persists audit events, ignoring ones it has already seen.
type EventRecorder interface {
	RecordEvent(ctx context.Context, e storage.AuditEvent) (bool, error)
}

// Stats counts what the worker has handled since start.
type Stats struct {
	Recorded   int64
	Duplicates int64
	Failed     int64
}

// AuditWorker turns change events into audit log rows.
type AuditWorker struct {
	recorder EventRecorder
	logger   *log.Logger
	now      func() time.Time

	recorded   atomic.Int64
	duplicates atomic.Int64
	failed     atomic.Int64
}

func NewAuditWorker(recorder EventRecorder, logger *log.Logger) *AuditWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &AuditWorker{
		recorder: recorder,
		logger:   logger.WithComponent(log.ComponentWorker),
		now:      time.Now,
	}
}

// HandleChange records one event. Redelivered events are recorded once.
func (w *AuditWorker) HandleChange(ctx context.Context, ev *amqp.ChangeEvent) error {
	occurred := ev.Timestamp
	if occurred.IsZero() {
		occurred = w.now()
	}
	inserted, err := w.recorder.RecordEvent(ctx, storage.AuditEvent{
		ID:         ev.EventID,
		Action:     ev.Operation,
		Collection: ev.Collection,
		Summary:    Summary(ev),
		OccurredAt: occurred,
		ReceivedAt: w.now(),
	})
	if err != nil {
		w.failed.Add(1)
		return fmt.Errorf("record event %s: %w", ev.EventID, err)
	}
	if !inserted {
		w.duplicates.Add(1)
		w.logger.DebugContext(ctx, "Duplicate change event ignored", log.FieldEventID, ev.EventID)
		return nil
	}
	w.recorded.Add(1)
	w.logger.InfoContext(ctx, "Change event recorded",
		log.FieldEventID, ev.EventID,
		log.FieldCollection, ev.Collection,
		log.FieldOperation, ev.Operation)
	return nil
}

func (w *AuditWorker) Stats() Stats {
	return Stats{
		Recorded:   w.recorded.Load(),
		Duplicates: w.duplicates.Load(),
		Failed:     w.failed.Load(),
	}
}

// Summary renders an event as a one-line description for the audit log.
func Summary(ev *amqp.ChangeEvent) string {
	if ev.RecordKey == "" {
		return fmt.Sprintf("%s %s", ev.Operation, ev.Collection)
	}
	return fmt.Sprintf("%s %s %s", ev.Operation, ev.Collection, ev.RecordKey)
}
