// Package patch turns a partially filled request body into a Mongo update.
//
// Inputs use pointer fields: nil means "leave as is", an empty or blank
// string means "clear" ($unset), anything else is set. Required fields
// reject clearing.
package patch

import (
	"strings"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/app/system/htmlsanitize"
	"go.mongodb.org/mongo-driver/bson"
)

// Builder accumulates $set and $unset entries. The first error sticks.
type Builder struct {
	set   bson.M
	unset bson.M
	err   error
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{set: bson.M{}, unset: bson.M{}}
}

// Set stores v under field unconditionally.
func (b *Builder) Set(field string, v any) *Builder {
	b.set[field] = v
	delete(b.unset, field)
	return b
}

// Unset clears field.
func (b *Builder) Unset(field string) *Builder {
	b.unset[field] = ""
	delete(b.set, field)
	return b
}

// Text applies an optional text field.
func (b *Builder) Text(field string, v *string) *Builder {
	if v == nil {
		return b
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return b.Unset(field)
	}
	return b.Set(field, s)
}

// Note is Text for free-form fields that may carry markup.
func (b *Builder) Note(field string, v *string) *Builder {
	if v == nil {
		return b
	}
	s := htmlsanitize.Clean(strings.TrimSpace(*v))
	if s == "" {
		return b.Unset(field)
	}
	return b.Set(field, s)
}

// Required applies a text field that may change but not be cleared.
func (b *Builder) Required(field, label string, v *string) *Builder {
	if v == nil {
		return b
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		b.fail(apperr.Validation("%s is required.", label))
		return b
	}
	return b.Set(field, s)
}

// Int applies an optional integer. Integers cannot be cleared through
// JSON null; send 0 instead.
func (b *Builder) Int(field string, v *int) *Builder {
	if v != nil {
		b.Set(field, *v)
	}
	return b
}

// Bool applies an optional flag.
func (b *Builder) Bool(field string, v *bool) *Builder {
	if v != nil {
		b.Set(field, *v)
	}
	return b
}

// Date applies an optional date given as RFC 3339 or YYYY-MM-DD.
func (b *Builder) Date(field, label string, v *string) *Builder {
	if v == nil {
		return b
	}
	if strings.TrimSpace(*v) == "" {
		return b.Unset(field)
	}
	t, err := ParseDate(*v)
	if err != nil {
		b.fail(apperr.Validation("%s must be a date (YYYY-MM-DD or RFC 3339).", label))
		return b
	}
	return b.Set(field, t)
}

// Fail records err unless an earlier error is already recorded.
func (b *Builder) Fail(err error) *Builder {
	b.fail(err)
	return b
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Err returns the first recorded error.
func (b *Builder) Err() error { return b.err }

// Empty reports whether nothing was set or unset.
func (b *Builder) Empty() bool { return len(b.set) == 0 && len(b.unset) == 0 }

// Has reports whether field is being set or unset.
func (b *Builder) Has(field string) bool {
	_, s := b.set[field]
	_, u := b.unset[field]
	return s || u
}

// Value returns what field is being set to.
func (b *Builder) Value(field string) (any, bool) {
	v, ok := b.set[field]
	return v, ok
}

// Update returns the update document, stamping updated_at with now.
func (b *Builder) Update(now time.Time) (bson.M, error) {
	if b.err != nil {
		return nil, b.err
	}
	set := bson.M{"updated_at": now.UTC()}
	for k, v := range b.set {
		set[k] = v
	}
	upd := bson.M{"$set": set}
	if len(b.unset) > 0 {
		upd["$unset"] = b.unset
	}
	return upd, nil
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates
// (midnight UTC). The result is always UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// DatePtr parses an optional date; nil or blank gives nil.
func DatePtr(label string, s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, apperr.Validation("%s must be a date (YYYY-MM-DD or RFC 3339).", label)
	}
	return &t, nil
}
