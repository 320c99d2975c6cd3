package utils

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		maxLen int
		want   string
	}{
		{"empty", "", 10, ""},
		{"whitespace only", "   ", 10, ""},
		{"shorter than limit", "tea stall", 20, "tea stall"},
		{"exactly at limit", "tea stall", 9, "tea stall"},
		{"truncated with ellipsis", "colonial-era riverside promenade", 12, "colonial-era…"},
		{"trailing space stripped before ellipsis", "old town walk", 9, "old town…"},
		{"zero limit returns trimmed input", "  heritage  ", 0, "heritage"},
		{"multibyte runes counted as one", "চায়ের দোকান", 6, "চায়ের…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.s, tt.maxLen); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
			}
		})
	}
}
