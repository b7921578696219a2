package utils

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseValue converts a raw CSV cell into the most specific scalar it can:
// int, then float, then the trimmed string. Empty cells become nil.
func ParseValue(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// ParseMoney converts a raw CSV cell into a decimal amount. Empty or
// unparseable cells become zero.
func ParseMoney(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Numeric converts supported scalar types to float64, returning 0 for
// anything non-numeric.
func Numeric(v any) float64 {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case float32:
		return float64(val)
	case float64:
		return val
	case decimal.Decimal:
		f, _ := val.Float64()
		return f
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
		return 0
	default:
		return 0
	}
}

// Int converts supported scalar types to int, returning 0 for anything
// non-numeric.
func Int(v any) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	default:
		return 0
	}
}
