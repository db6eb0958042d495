package storage

import (
	"context"
	"fmt"
	"time"
)

// AuditEvent is one recorded change to the ledger.
type AuditEvent struct {
	ID         string
	Action     string
	Collection string
	Summary    string
	OccurredAt time.Time
	ReceivedAt time.Time
}

// RecordEvent stores an event once. Redelivered events with a known ID are
// ignored and reported as not inserted.
func (r *SQLiteRepository) RecordEvent(ctx context.Context, e AuditEvent) (bool, error) {
	if e.ID == "" {
		return false, fmt.Errorf("audit event without id")
	}
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO audit_events (id, action, collection, summary, occurred_at, received_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Action, e.Collection, e.Summary, e.OccurredAt.UTC(), e.ReceivedAt.UTC())
	if err != nil {
		return false, fmt.Errorf("insert audit event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ListEvents returns the most recent events first. A non-positive limit
// returns everything.
func (r *SQLiteRepository) ListEvents(ctx context.Context, limit int) ([]AuditEvent, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, action, collection, summary, occurred_at, received_at
		 FROM audit_events ORDER BY occurred_at DESC, received_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []AuditEvent
	for rows.Next() {
		var e AuditEvent
		if err := rows.Scan(&e.ID, &e.Action, &e.Collection, &e.Summary, &e.OccurredAt, &e.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
