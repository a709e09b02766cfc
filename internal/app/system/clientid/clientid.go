// Package clientid builds the human-readable client codes used as client ids:
//
//	<2-letter city code><YYYYMMDD><first initial><last initial>[-n]
//
// e.g. SA20250114JD for Juan Delgado from San Juan registered on 14 Jan 2025.
// A second client with the same code on the same day becomes SA20250114JD-2.
package clientid

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// MaxAttempts bounds how many suffixes Assign tries.
const MaxAttempts = 50

// ErrTaken is returned by an insert func when the candidate id exists.
var ErrTaken = errors.New("client id already taken")

// ErrExhausted is returned when every suffix up to MaxAttempts is taken.
var ErrExhausted = errors.New("no free client id")

// Base returns the unsuffixed code for a client created at now.
// Blank city becomes XX and blank names become X.
func Base(city, firstName, lastName string, now time.Time) string {
	return prefix(city, 2, "XX") + now.Format("20060102") + prefix(firstName, 1, "X") + prefix(lastName, 1, "X")
}

// Candidate returns the id to try on the given attempt (1-based).
func Candidate(base string, attempt int) string {
	if attempt <= 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, attempt)
}

// Assign tries base, base-2, base-3, ... calling insert for each until one
// succeeds. insert must return ErrTaken (possibly wrapped) when the id is
// already used; any other error stops the loop and is returned as is.
func Assign(ctx context.Context, base string, insert func(ctx context.Context, id string) error) (string, error) {
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		id := Candidate(base, attempt)
		err := insert(ctx, id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, ErrTaken) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w after %d attempts for %s", ErrExhausted, MaxAttempts, base)
}

func prefix(s string, n int, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	var b strings.Builder
	for _, r := range s {
		if n == 0 {
			break
		}
		b.WriteRune(unicode.ToUpper(r))
		n--
	}
	return b.String()
}
