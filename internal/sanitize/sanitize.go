// Package sanitize keeps the API token out of operator-facing output.
package sanitize

import "strings"

// Redact replaces every occurrence of token in s with a fixed placeholder.
// Error strings from the HTTP layer or the daemon can echo request details,
// so anything printed to the terminal passes through here first.
func Redact(s, token string) string {
	if token == "" {
		return s
	}
	return strings.ReplaceAll(s, token, "[REDACTED]")
}
