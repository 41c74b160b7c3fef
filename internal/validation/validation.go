// Package validation checks forms against their `validate` struct tags and
// collects per-field errors keyed by JSON field name.
package validation

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// Errors maps a form field to the message shown next to it
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field, keeping the first message per field
func (e Errors) Add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

// Has reports whether field already failed
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Err returns nil when no field failed
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Struct runs the tag rules of form, which must be a struct. The result is
// never nil so callers can add checks the tags cannot express.
func Struct(form any) Errors {
	errs := Errors{}

	var failed validator.ValidationErrors
	err := validate.Struct(form)
	switch {
	case err == nil:
	case errors.As(err, &failed):
		for _, fe := range failed {
			errs.Add(fe.Field(), message(fe))
		}
	default:
		errs.Add("form", err.Error())
	}
	return errs
}

func message(fe validator.FieldError) string {
	label := humanize(fe.Field())
	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required"
	case "eqfield":
		return label + " does not match"
	case "max":
		return label + " is too long"
	default:
		return label + " is invalid"
	}
}

// humanize turns a camelCase field name into lower-case words
func humanize(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte(' ')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
