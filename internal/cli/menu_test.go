package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartbudget/internal/core"
	"smartbudget/internal/log"
	"smartbudget/internal/services"
	"smartbudget/internal/sheets"
	"smartbudget/internal/sheets/memory"
)

type session struct {
	budgets *services.BudgetService
	txs     *services.TransactionService
	reports *services.ReportService
	out     bytes.Buffer
	logs    bytes.Buffer
}

func newSession(t *testing.T, store sheets.RowStore) *session {
	t.Helper()
	if store == nil {
		store = memory.New()
	}
	opts := []services.Option{
		services.WithClock(func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) }),
		services.WithLogger(log.New(log.Config{Output: io.Discard})),
	}
	s := &session{
		budgets: services.NewBudgetService(store, opts...),
		txs:     services.NewTransactionService(store, opts...),
	}
	s.reports = services.NewReportService(s.budgets, s.txs, opts...)
	return s
}

func (s *session) run(t *testing.T, script ...string) error {
	t.Helper()
	p := NewPrompter(strings.NewReader(strings.Join(script, "\n")+"\n"), &s.out)
	app := NewApp(p, s.budgets, s.txs, s.reports, log.New(log.Config{Output: &s.logs}))
	return app.Run(context.Background())
}

func (s *session) addExpense(t *testing.T, date core.Date, cat core.Category, amount, desc string) {
	t.Helper()
	_, err := s.txs.Add(context.Background(), services.NewTransaction{
		Date: date, Kind: core.Expense, Category: cat, Amount: core.MustMoney(amount), Description: desc,
	})
	require.NoError(t, err)
}

func TestApp_WelcomeAndExit(t *testing.T) {
	s := newSession(t, nil)
	require.NoError(t, s.run(t, "9", "4"))
	out := s.out.String()
	assert.Contains(t, out, "Welcome to Smart Budget!")
	assert.Contains(t, out, "Invalid choice. Please try again.")
	assert.Contains(t, out, "Goodbye!")
}

func TestApp_EOFEndsSessionCleanly(t *testing.T) {
	s := newSession(t, nil)
	require.NoError(t, s.run(t, "1", "F"))
	assert.Contains(t, s.out.String(), "Goodbye!")
}

func TestApp_SetBudget(t *testing.T) {
	ctx := context.Background()

	t.Run("new category", func(t *testing.T) {
		s := newSession(t, nil)
		require.NoError(t, s.run(t, "1", "F", "250", "4"))
		assert.Contains(t, s.out.String(), "Budget limit for Food set to 250.00")

		b, found, err := s.budgets.Find(ctx, core.Food)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "250.00", b.Limit.String())
	})

	t.Run("invalid input is asked again", func(t *testing.T) {
		s := newSession(t, nil)
		require.NoError(t, s.run(t, "1", "W", "Housing", "-5", "abc", "900", "4"))
		out := s.out.String()
		assert.Contains(t, out, "Invalid category")
		assert.Contains(t, out, "Invalid amount")
		assert.Contains(t, out, "Budget limit for Housing set to 900.00")
	})

	t.Run("overwrite declined", func(t *testing.T) {
		s := newSession(t, nil)
		_, _, err := s.budgets.Set(ctx, core.Food, core.MustMoney("100"))
		require.NoError(t, err)

		require.NoError(t, s.run(t, "1", "f", "n", "4"))
		assert.Contains(t, s.out.String(), "Budget for Food not changed.")

		b, _, err := s.budgets.Find(ctx, core.Food)
		require.NoError(t, err)
		assert.Equal(t, "100.00", b.Limit.String())
	})

	t.Run("overwrite confirmed", func(t *testing.T) {
		s := newSession(t, nil)
		_, _, err := s.budgets.Set(ctx, core.Food, core.MustMoney("100"))
		require.NoError(t, err)

		require.NoError(t, s.run(t, "1", "F", "y", "300", "4"))
		list, err := s.budgets.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "300.00", list[0].Limit.String())
	})
}

func TestApp_AddTransaction(t *testing.T) {
	s := newSession(t, nil)
	require.NoError(t, s.run(t,
		"2", "1",
		"", // today
		"X", "E",
		"W", "H", // Wage is not an expense category
		"0", "500",
		"  ", "rent",
		"5", "4"))
	assert.Contains(t, s.out.String(), "Transaction added successfully!")

	all, err := s.txs.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "2024-03-10", all[0].Date.String())
	assert.Equal(t, core.Expense, all[0].Kind)
	assert.Equal(t, core.Housing, all[0].Category)
	assert.Equal(t, "500.00", all[0].Amount.String())
	assert.Equal(t, "rent", all[0].Description)
	assert.NotEmpty(t, all[0].ID)
}

func TestApp_UpdateTransaction(t *testing.T) {
	day := core.NewDate(2024, 1, 5)

	t.Run("first match is updated", func(t *testing.T) {
		s := newSession(t, nil)
		s.addExpense(t, day, core.Food, "20", "lunch")
		s.addExpense(t, day, core.Food, "30", "dinner")

		require.NoError(t, s.run(t, "2", "2", "2024-01-05", "I", "W", "1000", "salary", "5", "4"))
		assert.Contains(t, s.out.String(), "Transaction updated successfully!")

		all, err := s.txs.All(context.Background())
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, core.Income, all[0].Kind)
		assert.Equal(t, core.Wage, all[0].Category)
		assert.Equal(t, "salary", all[0].Description)
		assert.Equal(t, "2024-01-05", all[0].Date.String())
		assert.Equal(t, "dinner", all[1].Description)
	})

	t.Run("no match", func(t *testing.T) {
		s := newSession(t, nil)
		require.NoError(t, s.run(t, "2", "2", "2024-02-30", "2024-02-01", "5", "4"))
		out := s.out.String()
		assert.Contains(t, out, "Invalid date")
		assert.Contains(t, out, "No transaction found for 2024-02-01.")
	})
}

func TestApp_DeleteTransaction(t *testing.T) {
	day := core.NewDate(2024, 1, 5)

	t.Run("second of two same-date rows", func(t *testing.T) {
		s := newSession(t, nil)
		s.addExpense(t, day, core.Food, "20", "lunch")
		s.addExpense(t, day, core.Food, "20", "lunch")
		first, err := s.txs.FirstByDate(context.Background(), day)
		require.NoError(t, err)

		require.NoError(t, s.run(t, "2", "3", "2024-01-05", "3", "x", "2", "y", "5", "4"))
		out := s.out.String()
		assert.Contains(t, out, "1. 2024-01-05")
		assert.Contains(t, out, "2. 2024-01-05")
		assert.Contains(t, out, "enter a number between 1 and 2")
		assert.Contains(t, out, "Transaction deleted successfully!")

		all, err := s.txs.All(context.Background())
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, first.ID, all[0].ID)
	})

	t.Run("declined", func(t *testing.T) {
		s := newSession(t, nil)
		s.addExpense(t, day, core.Food, "20", "lunch")

		require.NoError(t, s.run(t, "2", "3", "2024-01-05", "1", "n", "5", "4"))
		assert.Contains(t, s.out.String(), "Deletion cancelled.")

		all, err := s.txs.All(context.Background())
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("no match", func(t *testing.T) {
		s := newSession(t, nil)
		require.NoError(t, s.run(t, "2", "3", "2024-01-06", "5", "4"))
		assert.Contains(t, s.out.String(), "No transaction found for 2024-01-06.")
	})
}

func TestApp_ViewTransactions(t *testing.T) {
	s := newSession(t, nil)
	s.addExpense(t, core.NewDate(2024, 1, 5), core.Food, "20", "january lunch")
	s.addExpense(t, core.NewDate(2024, 2, 5), core.Food, "30", "february lunch")
	s.addExpense(t, core.NewDate(2023, 2, 5), core.Food, "40", "last year")

	require.NoError(t, s.run(t, "2", "4", "M", "2024-1", "2024-01", "4", "Y", "2023", "4", "A", "4", "m", "2022-05", "5", "4"))
	out := s.out.String()
	assert.Contains(t, out, "Invalid month")
	assert.Equal(t, 2, strings.Count(out, "january lunch"))
	assert.Equal(t, 1, strings.Count(out, "february lunch"))
	assert.Equal(t, 2, strings.Count(out, "last year"))
	assert.Contains(t, out, "No transactions found.")
}

func TestApp_Report(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, nil)
	_, _, err := s.budgets.Set(ctx, core.Housing, core.MustMoney("500"))
	require.NoError(t, err)
	s.addExpense(t, core.NewDate(2024, 1, 1), core.Housing, "600", "rent")

	require.NoError(t, s.run(t, "3", "4"))
	out := s.out.String()
	assert.Contains(t, out, "Financial report")
	assert.Contains(t, out, "Total expenses:")
	assert.Contains(t, out, "600.00")
	assert.Contains(t, out, "Housing")
	assert.Contains(t, out, "-100.00")
}

type brokenStore struct {
	sheets.RowStore
}

func (brokenStore) ReadAll(context.Context, string) ([]sheets.Row, error) {
	return nil, errors.New("backend unavailable")
}

func TestApp_StoreErrorEndsSession(t *testing.T) {
	s := newSession(t, brokenStore{RowStore: memory.New()})
	err := s.run(t, "3", "4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend unavailable")
	assert.NotContains(t, s.out.String(), "Goodbye!")
	assert.Contains(t, s.logs.String(), "error_type=storage_error")
}

func TestErrorType(t *testing.T) {
	tests := map[string]struct {
		err  error
		want string
	}{
		"validation": {
			err:  fmt.Errorf("invalid transaction: %w", &core.ValidationError{Field: "amount", Err: core.ErrInvalidAmount}),
			want: log.ErrorTypeValidation,
		},
		"not found": {err: fmt.Errorf("transaction on 2024-01-01: %w", core.ErrNotFound), want: log.ErrorTypeNotFound},
		"storage":   {err: errors.New("backend unavailable"), want: log.ErrorTypeStorage},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorType(tt.err))
		})
	}
}

func TestRenderReport_NoBudgets(t *testing.T) {
	out := RenderReport(core.Report{
		TotalIncome:   core.MustMoney("10"),
		TotalExpenses: core.MustMoney("25"),
		Savings:       core.MustMoney("-15"),
	})
	assert.Contains(t, out, "-15.00")
	assert.Contains(t, out, "No budgets set.")
}
