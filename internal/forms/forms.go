// Package forms provides synchronous field-level validation for the login,
// signup, and create-list forms. Validation is pure: a ruleset maps current
// field values to an error map, with no side effects and no network access.
package forms

import (
	"fmt"
	"regexp"
	"strings"
)

// emailShape is the minimal address shape the front end accepts:
// <non-space>@<non-space>.<non-space>. Deliberately loose; the identity
// provider is the authority on deliverability.
var emailShape = regexp.MustCompile(`\S+@\S+\.\S+`)

// Rule checks a single field value and returns an error message, or "" if the
// value passes.
type Rule func(value string) string

// Required fails on an empty value.
func Required(msg string) Rule {
	return func(value string) string {
		if value == "" {
			return msg
		}
		return ""
	}
}

// NonBlank fails on a value that is empty after trimming whitespace.
func NonBlank(msg string) Rule {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return msg
		}
		return ""
	}
}

// Email fails on a value that does not contain an address-shaped substring.
func Email(msg string) Rule {
	return func(value string) string {
		if !emailShape.MatchString(value) {
			return msg
		}
		return ""
	}
}

// MinLen fails on a value shorter than n characters.
func MinLen(n int, msg string) Rule {
	return func(value string) string {
		if len(value) < n {
			return msg
		}
		return ""
	}
}

// Ruleset is an ordered collection of per-field rules. Rules for a field run
// in declaration order; the first failure wins.
type Ruleset struct {
	order  []string
	fields map[string][]Rule
}

// NewRuleset creates an empty ruleset.
func NewRuleset() *Ruleset {
	return &Ruleset{
		fields: make(map[string][]Rule),
	}
}

// Field declares the rules for one field and returns the ruleset for chaining.
func (r *Ruleset) Field(name string, rules ...Rule) *Ruleset {
	if _, exists := r.fields[name]; !exists {
		r.order = append(r.order, name)
	}
	r.fields[name] = append(r.fields[name], rules...)
	return r
}

// Validate maps current field values to a field→message error map. Fields with
// no failing rule are absent from the result. Calling Validate twice with
// identical values yields identical maps.
func (r *Ruleset) Validate(values map[string]string) map[string]string {
	errs := make(map[string]string)
	for _, name := range r.order {
		value := values[name]
		for _, rule := range r.fields[name] {
			if msg := rule(value); msg != "" {
				errs[name] = msg
				break
			}
		}
	}
	return errs
}

// Form pairs field values with their current validation errors, implementing
// the error-clear-on-edit contract: editing a field clears its error the
// instant the value changes, before and independent of any re-validation.
type Form struct {
	rules  *Ruleset
	values map[string]string
	errors map[string]string
}

// NewForm creates a form validated by the given ruleset.
func NewForm(rules *Ruleset) *Form {
	return &Form{
		rules:  rules,
		values: make(map[string]string),
		errors: make(map[string]string),
	}
}

// Set updates a field's value and clears any existing error for that field,
// regardless of whether the new value is valid.
func (f *Form) Set(field, value string) {
	f.values[field] = value
	delete(f.errors, field)
}

// Value returns the current value of a field.
func (f *Form) Value(field string) string {
	return f.values[field]
}

// Error returns the current error message for a field, or "".
func (f *Form) Error(field string) string {
	return f.errors[field]
}

// Errors returns a copy of the current field→message error map.
func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Validate runs the full ruleset against the current values. It records the
// resulting error map and reports whether submission may proceed.
func (f *Form) Validate() bool {
	f.errors = f.rules.Validate(f.values)
	return len(f.errors) == 0
}

// Reset clears all values and errors.
func (f *Form) Reset() {
	f.values = make(map[string]string)
	f.errors = make(map[string]string)
}

// Field names shared by the authentication and list forms.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldName     = "name"
)

// MinPasswordLen is the minimum signup password length.
const MinPasswordLen = 6

// LoginRuleset validates the login form: email shape plus password presence.
func LoginRuleset() *Ruleset {
	return NewRuleset().
		Field(FieldEmail,
			Required("Email is required"),
			Email("Email address is invalid"),
		).
		Field(FieldPassword,
			Required("Password is required"),
		)
}

// SignupRuleset validates the signup form: email shape plus minimum password length.
func SignupRuleset() *Ruleset {
	return NewRuleset().
		Field(FieldEmail,
			Required("Email is required"),
			Email("Email address is invalid"),
		).
		Field(FieldPassword,
			Required("Password is required"),
			MinLen(MinPasswordLen, fmt.Sprintf("Password must be at least %d characters", MinPasswordLen)),
		)
}

// CreateListRuleset validates the create-reading-list form.
func CreateListRuleset() *Ruleset {
	return NewRuleset().
		Field(FieldName,
			NonBlank("List name is required"),
		)
}
