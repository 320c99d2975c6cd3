// Package scoring computes the personalization, context, and intent
// sub-scores and combines them into scenario totals. All functions are pure:
// a candidate is scored against the caller's inputs only, never against other
// candidates.
package scoring

import (
	"strconv"
	"strings"
)

// Context carries the situational inputs for context scoring. Nil fields mean
// "signal absent" and contribute zero.
type Context struct {
	Weather string
	Hour    *int
	TempC   *float64
}

// ParseHour coerces a loosely-typed hour value (JSON number, int, or numeric
// string) to an hour pointer. Unparsable input means signal absent, not error.
func ParseHour(v interface{}) *int {
	switch h := v.(type) {
	case int:
		return &h
	case float64:
		n := int(h)
		return &n
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(h))
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}

// ParseTemp coerces a loosely-typed temperature value to a pointer.
// Unparsable input means signal absent.
func ParseTemp(v interface{}) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case int:
		f := float64(t)
		return &f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
