package ui

import (
	"fmt"
	"time"
)

// FormatRelativeTime formats t relative to now as a human-readable string.
// Examples: "just now", "2m ago", "3h ago", "5d ago"
func FormatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}

// FormatFetched formats when a record was fetched, handling the zero time.
func FormatFetched(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return FormatRelativeTime(t, now)
}
