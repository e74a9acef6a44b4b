package manifest

import (
	"encoding/json"
	"strconv"
	"strings"
)

// toInt coerces a raw value to an integer. Strings must parse as integers,
// floats truncate toward zero, booleans map to 0/1. The ok result is false
// when no coercion applies; callers always have an explicit fallback.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return int(f), true
		}
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}

// listSeparators are the characters a scalar tag/genre value is split on.
func listSeparator(r rune) bool {
	return r == ',' || r == '/' || r == '|' || r == ';'
}

// coerceList shapes a raw tags/themes/genre value into an ordered list of
// non-empty strings. Lists keep their element order; scalars are split on
// comma, slash, pipe, or semicolon. Anything else yields an empty list.
func coerceList(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []any:
		out := make([]string, 0, len(val))
		for _, el := range val {
			if el == nil || !isScalar(el) {
				continue
			}
			s := strings.TrimSpace(StripControl(scalarString(el)))
			if s == "" {
				continue
			}
			out = append(out, s)
		}
		return out
	default:
		if !isScalar(val) {
			return []string{}
		}
		pieces := strings.FieldsFunc(scalarString(val), listSeparator)
		out := make([]string, 0, len(pieces))
		for _, p := range pieces {
			s := strings.TrimSpace(StripControl(p))
			if s == "" {
				continue
			}
			out = append(out, s)
		}
		return out
	}
}

// tokenCount returns the whitespace-delimited token count of body text,
// used as the word count fallback for aggregation.
func tokenCount(body string) int {
	return len(strings.Fields(body))
}
