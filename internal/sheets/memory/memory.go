package memory

import (
	"context"
	"fmt"
	"sync"

	"smartbudget/internal/sheets"
)

// Store keeps rows in process. Row 1 of every collection is its header.
type Store struct {
	mu   sync.Mutex
	rows map[string][][]any
}

var _ sheets.RowStore = (*Store)(nil)

func New() *Store {
	rows := make(map[string][][]any, 2)
	for _, c := range sheets.Collections() {
		rows[c] = nil
	}
	return &Store{rows: rows}
}

// ReadAll returns the records of a collection in insertion order.
func (s *Store) ReadAll(_ context.Context, collection string) ([]sheets.Row, error) {
	cols, err := sheets.Columns(collection)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sheets.Row, 0, len(s.rows[collection]))
	for _, values := range s.rows[collection] {
		out = append(out, sheets.RowFromValues(cols, values))
	}
	return out, nil
}

func (s *Store) AppendRow(_ context.Context, collection string, values []any) error {
	if err := s.check(collection, values); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[collection] = append(s.rows[collection], clone(values))
	return nil
}

func (s *Store) ReplaceRow(_ context.Context, collection string, position int, values []any) error {
	if err := s.check(collection, values); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.rows[collection]
	if err := sheets.CheckPosition(position, len(rows)); err != nil {
		return err
	}
	rows[position-sheets.FirstDataRow] = clone(values)
	return nil
}

func (s *Store) DeleteRow(_ context.Context, collection string, position int) error {
	if _, err := sheets.Columns(collection); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.rows[collection]
	if err := sheets.CheckPosition(position, len(rows)); err != nil {
		return err
	}
	i := position - sheets.FirstDataRow
	s.rows[collection] = append(rows[:i], rows[i+1:]...)
	return nil
}

// Len returns the number of records in a collection.
func (s *Store) Len(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows[collection])
}

func (s *Store) check(collection string, values []any) error {
	cols, err := sheets.Columns(collection)
	if err != nil {
		return err
	}
	if len(values) > len(cols) {
		return fmt.Errorf("%s: %d values for %d columns", collection, len(values), len(cols))
	}
	return nil
}

func clone(values []any) []any {
	return append([]any(nil), values...)
}
