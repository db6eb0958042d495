package sheets

import (
	"fmt"
	"strconv"
	"strings"

	"smartbudget/internal/core"
)

// TransactionValues orders a transaction's fields as the transactions columns.
func TransactionValues(t core.Transaction) []any {
	return []any{t.Date.String(), string(t.Kind), string(t.Category), t.Amount.Float(), t.Description, t.ID}
}

// BudgetValues orders a budget entry's fields as the budget columns.
func BudgetValues(b core.BudgetEntry) []any {
	return []any{string(b.Category), b.Limit.Float()}
}

// TransactionFromRow decodes a stored row. Type and category names are
// brought to their canonical spelling; validation is left to callers, as
// rows written by hand in the spreadsheet may be incomplete.
func TransactionFromRow(r Row, index int) (core.Transaction, error) {
	date, err := core.ParseDate(cellString(r["Date"]))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("row %d: %w", Position(index), err)
	}
	amount, err := cellMoney(r["Amount"])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("row %d: %w", Position(index), err)
	}
	return core.Transaction{
		ID:          cellString(r["ID"]),
		Date:        date,
		Kind:        core.CanonicalKind(cellString(r["Type"])),
		Category:    core.CanonicalCategory(cellString(r["Category"])),
		Amount:      amount,
		Description: cellString(r["Description"]),
		Position:    Position(index),
	}, nil
}

// BudgetFromRow decodes a stored budget row, canonicalising the category.
func BudgetFromRow(r Row, index int) (core.BudgetEntry, error) {
	limit, err := cellMoney(r["Limit"])
	if err != nil {
		return core.BudgetEntry{}, fmt.Errorf("row %d: %w", Position(index), err)
	}
	return core.BudgetEntry{
		Category: core.CanonicalCategory(cellString(r["Category"])),
		Limit:    limit,
	}, nil
}

// RowFromValues zips a header row with cell values. Missing trailing cells
// become empty strings, as the Sheets API trims them.
func RowFromValues(headers []string, values []any) Row {
	row := make(Row, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if i < len(values) && values[i] != nil {
			row[h] = values[i]
		} else {
			row[h] = ""
		}
	}
	return row
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

func cellMoney(v any) (core.Money, error) {
	switch x := v.(type) {
	case float64:
		return core.NewMoney(x), nil
	case int:
		return core.NewMoney(float64(x)), nil
	case int64:
		return core.NewMoney(float64(x)), nil
	default:
		return core.ParseMoney(cellString(v))
	}
}
