package export

import (
	"testing"

	"go-ecommerce-analytics/internal/dataset"
	"go-ecommerce-analytics/internal/metrics"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertJSONNative fails when a normalized value contains anything beyond
// native JSON-compatible primitives.
func assertJSONNative(t *testing.T, v any) {
	t.Helper()
	switch val := v.(type) {
	case nil, bool, string, int, int64, float64:
	case []any:
		for _, item := range val {
			assertJSONNative(t, item)
		}
	case map[string]any:
		for _, item := range val {
			assertJSONNative(t, item)
		}
	default:
		t.Fatalf("non-native value %v of type %T", v, v)
	}
}

func TestNormalizeTable(t *testing.T) {
	table := dataset.New("a", "b")
	table.Append(dataset.Row{"a": 1, "b": 2.5})

	got := Normalize(table)
	require.Equal(t, []any{map[string]any{"a": 1, "b": 2.5}}, got)
	assertJSONNative(t, got)
}

func TestNormalizeSeries(t *testing.T) {
	s := &dataset.Series{}
	s.Add("5", 2)
	s.Add("4", 1)

	got := Normalize(s)
	require.Equal(t, map[string]any{"5": 2, "4": 1}, got)
	assertJSONNative(t, got)
}

func TestNormalizeDecimal(t *testing.T) {
	got := Normalize(decimal.RequireFromString("110.5"))
	assert.Equal(t, 110.5, got)

	gotSlice := Normalize([]decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(2)})
	assert.Equal(t, []any{1.0, 2.0}, gotSlice)
}

func TestNormalizeNested(t *testing.T) {
	table := dataset.New("revenue")
	table.Append(dataset.Row{"revenue": decimal.RequireFromString("99.9")})

	report := metrics.Report{
		"revenue_metrics": map[string]any{
			"total_revenue": decimal.NewFromInt(100),
			"total_orders":  3,
		},
		"monthly_trends": table,
		"tags":           []any{"a", decimal.NewFromInt(7)},
	}

	got := Normalize(report)
	assertJSONNative(t, got)

	m := got.(map[string]any)
	assert.Equal(t, 100.0, m["revenue_metrics"].(map[string]any)["total_revenue"])
	assert.Equal(t, 3, m["revenue_metrics"].(map[string]any)["total_orders"])
	assert.Equal(t, []any{map[string]any{"revenue": 99.9}}, m["monthly_trends"])
	assert.Equal(t, []any{"a", 7.0}, m["tags"])
}

func TestNormalizeUnrecognizedPassesThrough(t *testing.T) {
	type opaque struct{ X int }

	// Unrecognized types are deliberately returned unchanged; they fail at
	// JSON encoding time, not here.
	v := opaque{X: 1}
	assert.Equal(t, v, Normalize(v))
	assert.Equal(t, "text", Normalize("text"))
	assert.Equal(t, true, Normalize(true))
	assert.Nil(t, Normalize(nil))
}
