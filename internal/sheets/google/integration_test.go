//go:build integration

package google

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartbudget/internal/core"
	"smartbudget/internal/sheets"
)

// Integration tests require real Google Sheets credentials
// Run with: go test -tags=integration ./internal/sheets/google

func integrationClient(t *testing.T) *Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	spreadsheetID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}
	creds := Credentials{
		ServiceAccountJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		ServiceAccountFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
		OAuthClientJSON:    os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"),
		OAuthClientFile:    os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"),
		OAuthTokenJSON:     os.Getenv("GOOGLE_OAUTH_TOKEN_JSON"),
		OAuthTokenFile:     os.Getenv("GOOGLE_OAUTH_TOKEN_FILE"),
	}
	client, err := New(context.Background(), Config{
		SpreadsheetID: spreadsheetID,
		SheetNames: map[string]string{
			sheets.Budget:       os.Getenv("BUDGET_SHEET_NAME"),
			sheets.Transactions: os.Getenv("TRANSACTIONS_SHEET_NAME"),
		},
		Credentials: creds,
	})
	if err != nil {
		t.Skipf("cannot create client: %v", err)
	}
	return client
}

func TestIntegration_TransactionRoundTrip(t *testing.T) {
	client := integrationClient(t)
	ctx := context.Background()

	tx := core.Transaction{
		ID:          uuid.NewString(),
		Date:        core.DateOf(time.Now()),
		Kind:        core.Expense,
		Category:    core.Other,
		Amount:      core.MustMoney("12.34"),
		Description: "Integration Test Transaction",
	}
	require.NoError(t, client.AppendRow(ctx, sheets.Transactions, sheets.TransactionValues(tx)))

	rows, err := client.ReadAll(ctx, sheets.Transactions)
	require.NoError(t, err)

	position := 0
	for i, r := range rows {
		got, err := sheets.TransactionFromRow(r, i)
		if err != nil {
			continue
		}
		if got.ID == tx.ID {
			assert.True(t, got.SameFields(tx))
			position = got.Position
		}
	}
	require.NotZero(t, position, "appended row not found")

	tx.Description = "Integration Test Transaction (updated)"
	require.NoError(t, client.ReplaceRow(ctx, sheets.Transactions, position, sheets.TransactionValues(tx)))
	require.NoError(t, client.DeleteRow(ctx, sheets.Transactions, position))

	after, err := client.ReadAll(ctx, sheets.Transactions)
	require.NoError(t, err)
	assert.Len(t, after, len(rows)-1)
}

func TestIntegration_ContextCancellation(t *testing.T) {
	client := integrationClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ReadAll(ctx, sheets.Budget)
	assert.Error(t, err)
}
