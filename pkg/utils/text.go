package utils

import "strings"

// Truncate truncates s to maxLen runes and appends an ellipsis if truncated.
// Trailing whitespace before the ellipsis is stripped.
func Truncate(s string, maxLen int) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return ""
	}
	runes := []rune(t)
	if maxLen <= 0 || len(runes) <= maxLen {
		return t
	}
	return strings.TrimRight(string(runes[:maxLen]), " ") + "…"
}
