// Package util provides small string helpers shared by the CLI and the
// dashboard.
package util

// Pluralize returns singular if count is 1, otherwise plural.
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// TruncateWithEllipsis shortens s to maxLen runes, replacing the tail with
// "...". Limits of 3 or less return s unchanged.
func TruncateWithEllipsis(s string, maxLen int) string {
	if maxLen <= 3 {
		return s
	}
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
