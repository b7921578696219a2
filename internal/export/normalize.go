package export

import (
	"go-ecommerce-analytics/internal/dataset"
	"go-ecommerce-analytics/internal/metrics"

	"github.com/shopspring/decimal"
)

// Normalize converts a value produced by the loader or metrics layer into an
// equivalent value built only from JSON-native primitives, preserving
// structure recursively. Dispatch is a closed type switch over the set of
// normalizable shapes; each shape has its own conversion function.
//
// Unrecognized types pass through unchanged and never raise an error here;
// a malformed value surfaces as a JSON encoding failure instead.
func Normalize(v any) any {
	switch val := v.(type) {
	case *dataset.Table:
		return normalizeTable(val)
	case *dataset.Series:
		return normalizeSeries(val)
	case decimal.Decimal:
		return normalizeDecimal(val)
	case []decimal.Decimal:
		return normalizeDecimalSlice(val)
	case metrics.Report:
		return normalizeMap(val)
	case dataset.Row:
		return normalizeMap(val)
	case map[string]any:
		return normalizeMap(val)
	case []dataset.Row:
		rows := make([]any, len(val))
		for i, row := range val {
			rows[i] = normalizeMap(row)
		}
		return rows
	case []any:
		return normalizeSlice(val)
	default:
		return v
	}
}

// normalizeTable renders a table as an ordered sequence of row mappings.
func normalizeTable(t *dataset.Table) []any {
	rows := make([]any, 0, t.Len())
	for _, row := range t.Rows {
		rows = append(rows, normalizeMap(row))
	}
	return rows
}

// normalizeSeries renders a labeled series as a label-to-value mapping.
func normalizeSeries(s *dataset.Series) map[string]any {
	out := make(map[string]any, s.Len())
	for i, label := range s.Labels {
		out[label] = Normalize(s.Values[i])
	}
	return out
}

func normalizeDecimal(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func normalizeDecimalSlice(ds []decimal.Decimal) []any {
	out := make([]any, len(ds))
	for i, d := range ds {
		out[i] = normalizeDecimal(d)
	}
	return out
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Normalize(v)
	}
	return out
}

func normalizeSlice(s []any) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = Normalize(v)
	}
	return out
}
