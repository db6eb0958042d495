package services

import (
	"context"
	"fmt"
	"iter"
	"sync/atomic"

	"smartbudget/internal/core"
	"smartbudget/internal/log"
	"smartbudget/internal/sheets"
)

// NewTransaction holds the user-entered fields of a transaction to add.
type NewTransaction struct {
	Date        core.Date
	Kind        core.Kind
	Category    core.Category
	Amount      core.Money
	Description string
}

// Changes replaces every editable field of an existing transaction.
// Date and ID are kept.
type Changes struct {
	Kind        core.Kind
	Category    core.Category
	Amount      core.Money
	Description string
}

// TransactionService records income and expenses.
type TransactionService struct {
	store sheets.RowStore
	opts  options
}

func NewTransactionService(store sheets.RowStore, opts ...Option) *TransactionService {
	return &TransactionService{store: store, opts: buildOptions(log.ComponentTransaction, opts)}
}

// Today is the service clock's current date, the default for new entries.
func (s *TransactionService) Today() core.Date {
	return core.DateOf(s.opts.now())
}

// Add validates n and appends it with a fresh ID. Duplicates are allowed.
func (s *TransactionService) Add(ctx context.Context, n NewTransaction) (core.Transaction, error) {
	t := core.Transaction{
		ID:          s.opts.newID(),
		Date:        n.Date,
		Kind:        n.Kind,
		Category:    n.Category,
		Amount:      n.Amount,
		Description: n.Description,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("invalid transaction: %w", err)
	}
	if err := s.store.AppendRow(ctx, sheets.Transactions, sheets.TransactionValues(t)); err != nil {
		return core.Transaction{}, fmt.Errorf("append transaction: %w", err)
	}

	s.opts.logger.InfoContext(ctx, "Transaction added", log.NewFields().
		WithTransaction(t).
		WithOperation(log.OpCreate).
		WithCollection(sheets.Transactions, 0).
		ToSlice()...)
	s.opts.publish(ctx, sheets.Transactions, log.OpCreate, t.ID)
	return t, nil
}

// All returns every readable transaction in store order.
func (s *TransactionService) All(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.store.ReadAll(ctx, sheets.Transactions)
	if err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}
	return s.decode(ctx, rows), nil
}

// FindByDate returns every transaction on date, in store order.
func (s *TransactionService) FindByDate(ctx context.Context, date core.Date) ([]core.Transaction, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	var out []core.Transaction
	for _, t := range all {
		if t.Date.Equal(date) {
			out = append(out, t)
		}
	}
	return out, nil
}

// FirstByDate returns the first transaction on date or core.ErrNotFound.
func (s *TransactionService) FirstByDate(ctx context.Context, date core.Date) (core.Transaction, error) {
	matches, err := s.FindByDate(ctx, date)
	if err != nil {
		return core.Transaction{}, err
	}
	if len(matches) == 0 {
		return core.Transaction{}, fmt.Errorf("no transaction on %s: %w", date, core.ErrNotFound)
	}
	return matches[0], nil
}

// Update overwrites target's row with ch, keeping its date and ID.
func (s *TransactionService) Update(ctx context.Context, target core.Transaction, ch Changes) (core.Transaction, error) {
	updated := target
	updated.Kind = ch.Kind
	updated.Category = ch.Category
	updated.Amount = ch.Amount
	updated.Description = ch.Description
	if err := updated.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("invalid transaction: %w", err)
	}

	current, err := s.locate(ctx, target)
	if err != nil {
		return core.Transaction{}, err
	}
	updated.Position = current.Position
	if err := s.store.ReplaceRow(ctx, sheets.Transactions, current.Position, sheets.TransactionValues(updated)); err != nil {
		return core.Transaction{}, fmt.Errorf("replace transaction: %w", err)
	}

	s.opts.logger.InfoContext(ctx, "Transaction updated", log.NewFields().
		WithTransaction(updated).
		WithOperation(log.OpUpdate).
		WithCollection(sheets.Transactions, updated.Position).
		ToSlice()...)
	s.opts.publish(ctx, sheets.Transactions, log.OpUpdate, recordKey(updated))
	return updated, nil
}

// Delete removes exactly one row: target's.
func (s *TransactionService) Delete(ctx context.Context, target core.Transaction) error {
	current, err := s.locate(ctx, target)
	if err != nil {
		return err
	}
	if err := s.store.DeleteRow(ctx, sheets.Transactions, current.Position); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.opts.logger.InfoContext(ctx, "Transaction deleted", log.NewFields().
		WithTransaction(current).
		WithOperation(log.OpDelete).
		WithCollection(sheets.Transactions, current.Position).
		ToSlice()...)
	s.opts.publish(ctx, sheets.Transactions, log.OpDelete, recordKey(current))
	return nil
}

// View yields the transactions inside p in store order. Nothing is read
// until the first pull, and the sequence can be ranged over only once.
func (s *TransactionService) View(ctx context.Context, p core.Period) iter.Seq2[core.Transaction, error] {
	var consumed atomic.Bool
	return func(yield func(core.Transaction, error) bool) {
		if consumed.Swap(true) {
			return
		}
		s.opts.logger.DebugContext(ctx, "Viewing transactions", log.FieldPeriod, p.String())
		rows, err := s.store.ReadAll(ctx, sheets.Transactions)
		if err != nil {
			yield(core.Transaction{}, fmt.Errorf("read transactions: %w", err))
			return
		}
		for i, r := range rows {
			t, err := sheets.TransactionFromRow(r, i)
			if err != nil {
				s.skip(ctx, i, err)
				continue
			}
			if !p.Matches(t.Date) {
				continue
			}
			if !yield(t, nil) {
				return
			}
		}
	}
}

// locate re-reads the store and finds target by ID. Rows written without an
// ID fall back to the first row with identical fields.
func (s *TransactionService) locate(ctx context.Context, target core.Transaction) (core.Transaction, error) {
	all, err := s.All(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	for _, t := range all {
		if target.ID != "" && t.ID == target.ID {
			return t, nil
		}
	}
	if target.ID == "" {
		for _, t := range all {
			if t.ID == "" && t.SameFields(target) {
				return t, nil
			}
		}
	}
	return core.Transaction{}, fmt.Errorf("transaction on %s: %w", target.Date, core.ErrNotFound)
}

func (s *TransactionService) decode(ctx context.Context, rows []sheets.Row) []core.Transaction {
	out := make([]core.Transaction, 0, len(rows))
	for i, r := range rows {
		t, err := sheets.TransactionFromRow(r, i)
		if err != nil {
			s.skip(ctx, i, err)
			continue
		}
		out = append(out, t)
	}
	return out
}

func (s *TransactionService) skip(ctx context.Context, index int, err error) {
	s.opts.logger.DebugContext(ctx, "Skipping unreadable transaction row",
		log.FieldPosition, sheets.Position(index), log.FieldError, err)
}

func recordKey(t core.Transaction) string {
	if t.ID != "" {
		return t.ID
	}
	return t.Date.String()
}
