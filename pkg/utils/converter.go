package utils

import (
	"time"
)

// ================================================================================
// Default Value Helpers
// ================================================================================

// DefaultString returns the value if not empty, otherwise returns the default
func DefaultString(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

// DefaultDuration returns the value if positive, otherwise returns the default
func DefaultDuration(value, defaultValue time.Duration) time.Duration {
	if value <= 0 {
		return defaultValue
	}
	return value
}

// ================================================================================
// String Helpers
// ================================================================================

// Truncate truncates a string to specified length with ellipsis
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return s[:maxLen]
	}

	return s[:maxLen-3] + "..."
}
