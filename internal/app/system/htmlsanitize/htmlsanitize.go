// Package htmlsanitize cleans user-entered rich text (client notes, task
// and event descriptions, activity outcomes) before it is stored.
package htmlsanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func ugc() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").OnElements("table", "thead", "tbody", "tr", "th", "td")
		p.AllowElements("u", "s", "sub", "sup", "mark")
		policy = p
	})
	return policy
}

// Sanitize strips scripts, event handlers, javascript: URLs and any
// element outside the user-content allow list.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc().Sanitize(s)
}

// IsPlainText reports whether s contains no markup at all.
func IsPlainText(s string) bool {
	return !strings.Contains(s, "<")
}

// Clean returns plain text unchanged and sanitizes anything with markup.
// Plain text is left alone so characters such as '&' are not entity-escaped.
func Clean(s string) string {
	if IsPlainText(s) {
		return s
	}
	return Sanitize(s)
}

// CleanPtr applies Clean to an optional value.
func CleanPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := Clean(*s)
	return &v
}
