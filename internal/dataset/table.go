package dataset

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Row is a schema-agnostic record keyed by column name.
type Row map[string]any

// Table is a row-oriented dataset, analogous to a database result set.
// Filter operations never mutate the receiver; each one builds a new Table
// that shares row maps with the source.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Append adds a row to the table.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Filter returns a new table containing the rows for which pred is true.
func (t *Table) Filter(pred func(Row) bool) *Table {
	out := &Table{Columns: t.Columns}
	for _, row := range t.Rows {
		if pred(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Head returns a new table with at most n rows, input order preserved.
func (t *Table) Head(n int) *Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return &Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

// Column returns all values of one column, row order preserved.
func (t *Table) Column(name string) []any {
	values := make([]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		values = append(values, row[name])
	}
	return values
}

// ValueCounts counts the distinct values of a column, skipping nil cells.
// Labels are ordered by descending count, ties broken by first appearance.
func (t *Table) ValueCounts(column string) *Series {
	counts := make(map[string]int)
	var order []string
	for _, row := range t.Rows {
		v, ok := row[column]
		if !ok || v == nil {
			continue
		}
		label := Label(v)
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	// Stable selection sort keeps first-appearance order among equal counts.
	s := &Series{}
	for len(order) > 0 {
		best := 0
		for i, label := range order {
			if counts[label] > counts[order[best]] {
				best = i
			}
		}
		label := order[best]
		s.Add(label, counts[label])
		order = append(order[:best], order[best+1:]...)
	}
	return s
}

// Label renders a cell value as a series label.
func Label(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case decimal.Decimal:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
