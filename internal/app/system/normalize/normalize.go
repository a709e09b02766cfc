// Package normalize trims and canonicalizes user input before it is
// validated or stored.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Username canonicalizes a login handle. Usernames look like emails
// (admin@acme.internal) and compare case-insensitively.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name and collapses inner runs of whitespace.
// Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Role uppercases and trims a member role.
func Role(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Enum uppercases and trims an enumerated value such as a task status.
func Enum(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Status lowercases and trims a user status.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a query string value. Case is preserved.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// OptionalText trims *s and returns nil when nothing is left.
func OptionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
