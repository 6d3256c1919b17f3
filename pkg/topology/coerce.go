package topology

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Stringify converts a cell value to its display string. nil becomes the
// empty string; numbers use their shortest representation.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// toNumber converts a cell value to a float64. nil, empty and
// whitespace-only strings are 0; booleans are 1 or 0. ok is false when the
// value has no numeric reading.
func toNumber(v any) (n float64, ok bool) {
	switch x := v.(type) {
	case nil:
		return 0, true
	case float64:
		return x, !math.IsNaN(x)
	case float32:
		return float64(x), !math.IsNaN(float64(x))
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// toLayer converts a cell value to a layer number. Values that are not
// finite integers are rejected.
func toLayer(v any) (int, bool) {
	f, ok := toNumber(v)
	if !ok || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// toThickness converts a cell value to an edge thickness. Infinite values
// are rejected so the result is always JSON-encodable.
func toThickness(v any) (float64, bool) {
	f, ok := toNumber(v)
	if !ok || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
