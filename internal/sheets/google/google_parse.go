package google

import (
	"fmt"
	"strings"

	"smartbudget/internal/sheets"
)

// parseValues converts a values matrix (as returned by the Sheets API) into
// rows keyed by the header in row 1. Blank rows are kept so that record
// indexes still map onto physical positions.
func parseValues(values [][]interface{}, fallback []string) []sheets.Row {
	if len(values) == 0 {
		return nil
	}
	headers := toStrings(values[0])
	if !hasAny(headers) {
		headers = fallback
	}
	out := make([]sheets.Row, 0, len(values)-1)
	for _, v := range values[1:] {
		out = append(out, sheets.RowFromValues(headers, v))
	}
	return out
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func hasAny(arr []string) bool {
	for _, v := range arr {
		if v != "" {
			return true
		}
	}
	return false
}

// columnLetter returns the A1 column name for a 1-based column index.
func columnLetter(n int) string {
	if n < 1 {
		return "A"
	}
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

// quoteTitle quotes a worksheet title for use in A1 notation.
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
