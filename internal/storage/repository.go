package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"smartbudget/internal/sheets"

	_ "modernc.org/sqlite"
)

// SQLiteRepository keeps each collection in its own table. Record order is
// insertion order (rowid), so physical positions behave like spreadsheet rows.
type SQLiteRepository struct {
	db *sql.DB
}

// Ensure interface conformance
var _ sheets.RowStore = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if _, err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// a single writer keeps positional updates consistent
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) ReadAll(ctx context.Context, collection string) ([]sheets.Row, error) {
	cols, err := sheets.Columns(collection)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", columnList(cols), collection)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}
	defer rows.Close()

	var out []sheets.Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		for i, v := range values {
			values[i] = normalizeCell(v)
		}
		out = append(out, sheets.RowFromValues(cols, values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	return out, nil
}

func (r *SQLiteRepository) AppendRow(ctx context.Context, collection string, values []any) error {
	cols, err := sheets.Columns(collection)
	if err != nil {
		return err
	}
	args, err := padValues(collection, cols, values)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		collection, columnList(cols), strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append to %s: %w", collection, err)
	}
	slog.DebugContext(ctx, "Row appended to SQLite", "collection", collection)
	return nil
}

func (r *SQLiteRepository) ReplaceRow(ctx context.Context, collection string, position int, values []any) error {
	cols, err := sheets.Columns(collection)
	if err != nil {
		return err
	}
	args, err := padValues(collection, cols, values)
	if err != nil {
		return err
	}
	if position < sheets.FirstDataRow {
		return fmt.Errorf("%w: %d", sheets.ErrRowOutOfRange, position)
	}
	set := make([]string, len(cols))
	for i, c := range cols {
		set[i] = quoteIdent(c) + " = ?"
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE rowid = (%s)",
		collection, strings.Join(set, ", "), rowidAt(collection))
	res, err := r.db.ExecContext(ctx, query, append(args, position-sheets.FirstDataRow)...)
	if err != nil {
		return fmt.Errorf("update %s row %d: %w", collection, position, err)
	}
	return checkAffected(res, position)
}

func (r *SQLiteRepository) DeleteRow(ctx context.Context, collection string, position int) error {
	if _, err := sheets.Columns(collection); err != nil {
		return err
	}
	if position < sheets.FirstDataRow {
		return fmt.Errorf("%w: %d", sheets.ErrRowOutOfRange, position)
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE rowid = (%s)", collection, rowidAt(collection))
	res, err := r.db.ExecContext(ctx, query, position-sheets.FirstDataRow)
	if err != nil {
		return fmt.Errorf("delete %s row %d: %w", collection, position, err)
	}
	return checkAffected(res, position)
}

func rowidAt(table string) string {
	return fmt.Sprintf("SELECT rowid FROM %s ORDER BY rowid LIMIT 1 OFFSET ?", table)
}

func checkAffected(res sql.Result, position int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", sheets.ErrRowOutOfRange, position)
	}
	return nil
}

// padValues fills trailing columns with empty cells, as the sheet would.
func padValues(collection string, cols []string, values []any) ([]any, error) {
	if len(values) > len(cols) {
		return nil, fmt.Errorf("%s: %d values for %d columns", collection, len(values), len(cols))
	}
	args := make([]any, len(cols))
	for i := range cols {
		if i < len(values) && values[i] != nil {
			args[i] = values[i]
		} else {
			args[i] = ""
		}
	}
	return args, nil
}

func normalizeCell(v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case int64:
		return float64(x)
	default:
		return x
	}
}

func columnList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	return strings.Join(quoted, ", ")
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
