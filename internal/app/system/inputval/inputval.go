// Package inputval validates decoded request bodies with struct tags and
// turns failures into short, user-facing messages.
//
//	type input struct {
//	    FirstName string  `json:"firstName" validate:"required,max=100" label:"First name"`
//	    Email     *string `json:"email" validate:"omitempty,email" label:"Email"`
//	}
package inputval

import (
	"fmt"
	"net/mail"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/claimdesk/internal/app/system/apperr"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Message string
}

// Result collects every failed rule for one input.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// Err returns nil or a validation error carrying All().
func (r *Result) Err() error {
	if !r.HasErrors() {
		return nil
	}
	return apperr.Validation("%s", r.All())
}

var (
	once sync.Once
	v    *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			if j := strings.Split(f.Tag.Get("json"), ",")[0]; j != "" && j != "-" {
				return j
			}
			return f.Name
		})
		str := func(fn func(string) bool) validator.Func {
			return func(fl validator.FieldLevel) bool { return fn(fl.Field().String()) }
		}
		_ = v.RegisterValidation("email", str(IsValidEmail))
		_ = v.RegisterValidation("objectid", str(IsValidObjectID))
		_ = v.RegisterValidation("httpurl", str(IsValidHTTPURL))
		_ = v.RegisterValidation("hhmm", str(IsValidClock))
		_ = v.RegisterValidation("role", str(models.IsValidRole))
		_ = v.RegisterValidation("activitytype", str(models.IsValidActivityType))
		_ = v.RegisterValidation("taskcategory", str(models.IsValidTaskCategory))
		_ = v.RegisterValidation("taskpriority", str(models.IsValidTaskPriority))
		_ = v.RegisterValidation("taskstatus", str(models.IsValidTaskStatus))
		_ = v.RegisterValidation("eventtype", str(models.IsValidEventType))
		_ = v.RegisterValidation("eventstatus", str(models.IsValidEventStatus))
		_ = v.RegisterValidation("doctype", str(models.IsValidDocumentType))
		_ = v.RegisterValidation("permitstatus", str(models.IsValidPermitStatus))
		_ = v.RegisterValidation("projectstatus", str(models.IsValidProjectStatus))
	})
	return v
}

// Validate runs the struct's validate tags.
func Validate(s any) *Result {
	res := &Result{}
	err := engine().Struct(s)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return res
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s.", label, fe.Param())
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s.", label, fe.Param())
	case "email":
		return "A valid email address is required."
	case "hhmm":
		return label + " must be a time in HH:MM format."
	case "objectid":
		return label + " must be a valid id."
	case "httpurl":
		return label + " must be a valid http(s) URL."
	case "role", "activitytype", "taskcategory", "taskpriority", "taskstatus",
		"eventtype", "eventstatus", "doctype", "permitstatus", "projectstatus", "oneof":
		return fmt.Sprintf("%s has an unknown value %q.", label, fmt.Sprint(fe.Value()))
	}
	return label + " is invalid."
}

// IsValidEmail accepts a bare address (no display name) with a non-empty
// local part and domain, no spaces and no empty dot-separated labels.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t<>") {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	for _, part := range []string{local, domain} {
		if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") || strings.Contains(part, "..") {
			return false
		}
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// IsValidObjectID reports whether s (trimmed) is a 24-digit hex id.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}

// IsValidHTTPURL reports whether s (trimmed) is an absolute http(s) URL.
func IsValidHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidClock reports whether s is a 24h "HH:MM" time.
func IsValidClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return h < 24 && m < 60
}
