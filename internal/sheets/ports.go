package sheets

import (
	"context"
	"errors"
	"fmt"
)

// Collection names as they appear in the store.
const (
	Budget       = "budget"
	Transactions = "transactions"
)

// FirstDataRow is the physical position of logical record 0; row 1 holds headers.
const FirstDataRow = 2

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrRowOutOfRange     = errors.New("row position out of range")
)

// Row maps a column header to its cell value (string or float64).
type Row map[string]any

// Ports for outbound adapters.
type (
	// RowStore is an ordered, header-keyed table per collection.
	// Positions are 1-based physical rows; see Position.
	RowStore interface {
		ReadAll(ctx context.Context, collection string) ([]Row, error)
		AppendRow(ctx context.Context, collection string, values []any) error
		ReplaceRow(ctx context.Context, collection string, position int, values []any) error
		DeleteRow(ctx context.Context, collection string, position int) error
	}
)

var columns = map[string][]string{
	Budget:       {"Category", "Limit"},
	Transactions: {"Date", "Type", "Category", "Amount", "Description", "ID"},
}

// Columns returns the header row of a collection.
func Columns(collection string) ([]string, error) {
	cols, ok := columns[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
	return append([]string(nil), cols...), nil
}

// Collections lists every known collection.
func Collections() []string {
	return []string{Budget, Transactions}
}

// Position converts a 0-based record index from ReadAll to a physical row.
func Position(index int) int {
	return index + FirstDataRow
}

// CheckPosition rejects the header row and rows past the last record.
func CheckPosition(position, records int) error {
	if position < FirstDataRow || position >= records+FirstDataRow {
		return fmt.Errorf("%w: %d (records: %d)", ErrRowOutOfRange, position, records)
	}
	return nil
}
