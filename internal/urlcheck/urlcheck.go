// Package urlcheck decides whether a free-text sheet cell is a usable link.
package urlcheck

import (
	"net/url"
	"strings"
)

// placeholders are values editors type into URL cells before a link exists.
var placeholders = map[string]struct{}{
	"tbd":         {},
	"pending":     {},
	"n/a":         {},
	"na":          {},
	"none":        {},
	"coming soon": {},
	"todo":        {},
}

// IsValid reports whether value is a real link: not blank, not a known
// placeholder, parseable once an https:// scheme is assumed, and with a
// dotted hostname.
func IsValid(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	if _, ok := placeholders[strings.ToLower(trimmed)]; ok {
		return false
	}

	u, err := url.Parse(Normalize(trimmed))
	if err != nil {
		return false
	}
	return strings.Contains(u.Hostname(), ".")
}

// Normalize trims value and prefixes https:// when no http(s) scheme is present.
func Normalize(value string) string {
	trimmed := strings.TrimSpace(value)
	if HasScheme(trimmed) {
		return trimmed
	}
	return "https://" + trimmed
}

// HasScheme reports whether value starts with http:// or https://.
func HasScheme(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}
