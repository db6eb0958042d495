package worker

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartbudget/internal/amqp"
	"smartbudget/internal/log"
	"smartbudget/internal/storage"
)

func quietLogger() *log.Logger {
	return log.New(log.Config{Output: &bytes.Buffer{}})
}

func TestAuditWorker_RecordsOnce(t *testing.T) {
	ctx := context.Background()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	w := NewAuditWorker(repo, quietLogger())
	ev := amqp.NewChangeEvent("transactions", "delete", "tx-9")

	require.NoError(t, w.HandleChange(ctx, ev))
	require.NoError(t, w.HandleChange(ctx, ev))

	events, err := repo.ListEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "delete transactions tx-9", events[0].Summary)
	assert.Equal(t, "delete", events[0].Action)
	assert.Equal(t, Stats{Recorded: 1, Duplicates: 1}, w.Stats())
}

type brokenRecorder struct{}

func (brokenRecorder) RecordEvent(context.Context, storage.AuditEvent) (bool, error) {
	return false, errors.New("disk full")
}

func TestAuditWorker_FailureIsReturned(t *testing.T) {
	w := NewAuditWorker(brokenRecorder{}, quietLogger())
	err := w.HandleChange(context.Background(), amqp.NewChangeEvent("budget", "create", "Food"))
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, int64(1), w.Stats().Failed)
}

type captureRecorder struct{ got storage.AuditEvent }

func (c *captureRecorder) RecordEvent(_ context.Context, e storage.AuditEvent) (bool, error) {
	c.got = e
	return true, nil
}

func TestAuditWorker_MissingTimestampUsesReceiveTime(t *testing.T) {
	rec := &captureRecorder{}
	w := NewAuditWorker(rec, quietLogger())
	fixed := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return fixed }

	require.NoError(t, w.HandleChange(context.Background(), &amqp.ChangeEvent{EventID: "e", Collection: "budget", Operation: "update"}))
	assert.Equal(t, fixed, rec.got.OccurredAt)
	assert.Equal(t, "update budget", rec.got.Summary)
}
