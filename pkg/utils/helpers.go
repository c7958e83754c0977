package utils

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseValue parses a single CSV cell: int64, then float64, then string.
// An empty cell is nil.
func ParseValue(s string) interface{} {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// ParseColumn parses the cells of one column with a single type for the whole
// column. Integers widen to float64 when any cell needs a decimal point, and
// everything stays a string when any cell is not numeric. Empty cells are nil.
func ParseColumn(cells []string) []interface{} {
	out := make([]interface{}, len(cells))
	kind := 0 // 0 int, 1 float, 2 string
	for i, c := range cells {
		out[i] = ParseValue(c)
		switch out[i].(type) {
		case float64:
			kind = max(kind, 1)
		case string:
			kind = 2
		}
	}

	for i, v := range out {
		if v == nil {
			continue
		}
		switch kind {
		case 1:
			if n, ok := v.(int64); ok {
				out[i] = float64(n)
			}
		case 2:
			out[i] = cells[i]
		}
	}
	return out
}

// FormatValue renders a cell for CSV. Floats always carry a decimal point so
// they read back as floats.
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	default:
		if n, ok := Numeric(v); ok {
			return formatFloat(n)
		}
		return ""
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// Numeric converts supported types to float64.
func Numeric(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case interface{ Float64() float64 }:
		return val.Float64(), true
	default:
		return 0, false
	}
}
