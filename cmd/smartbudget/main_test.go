package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartbudget/internal/storage"
)

func execute(t *testing.T, env map[string]string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("AMQP_URL", "")
	t.Setenv("LOG_LEVEL", "error")
	for k, v := range env {
		t.Setenv(k, v)
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, map[string]string{"DATA_BACKEND": "bogus"}, "version")
	require.NoError(t, err)
	assert.Equal(t, "smartbudget dev\n", out)
}

func TestReportCommand_MemoryBackend(t *testing.T) {
	out, err := execute(t, map[string]string{"DATA_BACKEND": "memory"}, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "Financial report")
	assert.Contains(t, out, "No budgets set.")
}

func TestInvalidConfigFails(t *testing.T) {
	_, err := execute(t, map[string]string{"DATA_BACKEND": "bogus"}, "report")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid data backend 'bogus'")
}

func TestAuditCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audit.db")
	env := map[string]string{"DATA_BACKEND": "sqlite", "SQLITE_DB_PATH": dbPath}

	out, err := execute(t, env, "audit")
	require.NoError(t, err)
	assert.Contains(t, out, "No change events recorded.")

	repo, err := storage.NewSQLiteRepository(dbPath)
	require.NoError(t, err)
	_, err = repo.RecordEvent(context.Background(), storage.AuditEvent{
		ID:         "ev-1",
		Action:     "create",
		Collection: "budget",
		Summary:    "create budget Food",
		OccurredAt: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	out, err = execute(t, env, "audit", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "create budget Food")
	assert.Contains(t, out, "budget")
}

func TestPrintEvents(t *testing.T) {
	var buf bytes.Buffer
	printEvents(&buf, []storage.AuditEvent{
		{ID: "a", Action: "delete", Collection: "transactions", Summary: "delete transactions tx-1", OccurredAt: time.Now()},
		{ID: "b", Action: "update", Collection: "budget", Summary: "update budget Food", OccurredAt: time.Now()},
	})
	out := buf.String()
	assert.Contains(t, out, "Collection")
	assert.Contains(t, out, "delete transactions tx-1")
	assert.Contains(t, out, "update budget Food")
}
