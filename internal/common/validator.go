package common

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

var EmailRX = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type ValidationError struct {
	Errors map[string]string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %+v", e.Errors)
}

type Validator struct {
	Errors map[string]string
}

func NewValidator() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError keeps the first message recorded for a field.
func (v *Validator) AddError(field, message string) {
	if _, ok := v.Errors[field]; !ok {
		v.Errors[field] = message
	}
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// CheckStringLength counts runes, not bytes.
func (v *Validator) CheckStringLength(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

func (v *Validator) ValidationError() error {
	return ValidationError{Errors: v.Errors}
}

// CheckRequired records "must be provided" for an empty value and a length error otherwise.
func (v *Validator) CheckRequired(value, field string, max int) {
	v.Check(value != "", field, "must be provided")
	v.Check(v.CheckStringLength(value, 0, max), field, fmt.Sprintf("must not be more than %d characters long", max))
}

// CheckOptional only checks the length of a value that may be absent.
func (v *Validator) CheckOptional(value *string, field string, max int) {
	if value == nil {
		return
	}
	v.Check(v.CheckStringLength(*value, 0, max), field, fmt.Sprintf("must not be more than %d characters long", max))
}

func (v *Validator) CheckEmail(email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(EmailRX.MatchString(email), "email", "must be a valid email address")
}

func (v *Validator) CheckID(id int, field string) {
	v.Check(id > 0, field, "must be greater than zero")
}
