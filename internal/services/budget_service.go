package services

import (
	"context"
	"fmt"
	"strings"

	"smartbudget/internal/core"
	"smartbudget/internal/log"
	"smartbudget/internal/sheets"
)

// BudgetService manages one spending limit per category.
type BudgetService struct {
	store sheets.RowStore
	opts  options
}

func NewBudgetService(store sheets.RowStore, opts ...Option) *BudgetService {
	return &BudgetService{store: store, opts: buildOptions(log.ComponentBudget, opts)}
}

type budgetRecord struct {
	entry    core.BudgetEntry
	position int
}

func (s *BudgetService) read(ctx context.Context) ([]budgetRecord, error) {
	rows, err := s.store.ReadAll(ctx, sheets.Budget)
	if err != nil {
		return nil, fmt.Errorf("read budgets: %w", err)
	}
	out := make([]budgetRecord, 0, len(rows))
	for i, r := range rows {
		b, err := sheets.BudgetFromRow(r, i)
		if err != nil || b.Category == "" {
			s.opts.logger.WarnContext(ctx, "Skipping unreadable budget row",
				log.FieldPosition, sheets.Position(i), log.FieldError, err)
			continue
		}
		out = append(out, budgetRecord{entry: b, position: sheets.Position(i)})
	}
	return out, nil
}

// List returns every budget in store order.
func (s *BudgetService) List(ctx context.Context) ([]core.BudgetEntry, error) {
	recs, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.BudgetEntry, len(recs))
	for i, r := range recs {
		out[i] = r.entry
	}
	return out, nil
}

// Find reports the budget for category, if one exists.
func (s *BudgetService) Find(ctx context.Context, category core.Category) (core.BudgetEntry, bool, error) {
	recs, err := s.read(ctx)
	if err != nil {
		return core.BudgetEntry{}, false, err
	}
	if r, ok := findBudget(recs, category); ok {
		return r.entry, true, nil
	}
	return core.BudgetEntry{}, false, nil
}

// Set creates or overwrites the limit for category. The store is re-read
// immediately before the write. created is true when a new row was appended.
func (s *BudgetService) Set(ctx context.Context, category core.Category, limit core.Money) (entry core.BudgetEntry, created bool, err error) {
	entry = core.BudgetEntry{Category: category, Limit: limit}
	if err := entry.Validate(); err != nil {
		return core.BudgetEntry{}, false, fmt.Errorf("invalid budget: %w", err)
	}

	recs, err := s.read(ctx)
	if err != nil {
		return core.BudgetEntry{}, false, err
	}

	op := log.OpCreate
	if r, ok := findBudget(recs, category); ok {
		op = log.OpUpdate
		if err := s.store.ReplaceRow(ctx, sheets.Budget, r.position, sheets.BudgetValues(entry)); err != nil {
			return core.BudgetEntry{}, false, fmt.Errorf("update budget %s: %w", category, err)
		}
	} else {
		created = true
		if err := s.store.AppendRow(ctx, sheets.Budget, sheets.BudgetValues(entry)); err != nil {
			return core.BudgetEntry{}, false, fmt.Errorf("append budget %s: %w", category, err)
		}
	}

	s.opts.logger.InfoContext(ctx, "Budget saved", log.NewFields().
		WithBudget(entry).
		WithOperation(op).
		WithCollection(sheets.Budget, 0).
		ToSlice()...)
	s.opts.publish(ctx, sheets.Budget, op, string(category))
	return entry, created, nil
}

// findBudget returns the first row for category. Hand-edited sheets may
// differ in case.
func findBudget(recs []budgetRecord, category core.Category) (budgetRecord, bool) {
	for _, r := range recs {
		if strings.EqualFold(string(r.entry.Category), string(category)) {
			return r, true
		}
	}
	return budgetRecord{}, false
}
