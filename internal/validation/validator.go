// Reelmatch - Content-Based Movie Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed constraint on a request parameter.
type FieldError struct {
	// Field is the query parameter name, or the struct field name when
	// the field has no query tag.
	Field string

	// Tag is the validator tag that failed, e.g. "required" or "max".
	Tag string

	// Param is the tag argument, e.g. "500" for max=500.
	Param string

	// Message is the client-facing description.
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// Errors lists every failed constraint in struct field order.
type Errors []FieldError

func (e Errors) Error() string {
	switch len(e) {
	case 0:
		return "validation failed"
	case 1:
		return e[0].Message
	}
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

// Details renders the errors for an API error body: field and tag for a
// single failure, a fields list otherwise.
func (e Errors) Details() map[string]interface{} {
	switch len(e) {
	case 0:
		return nil
	case 1:
		return map[string]interface{}{"field": e[0].Field, "tag": e[0].Tag}
	}
	fields := make([]map[string]string, len(e))
	for i, fe := range e {
		fields[i] = map[string]string{"field": fe.Field, "tag": fe.Tag, "message": fe.Message}
	}
	return map[string]interface{}{"fields": fields}
}

// GetValidator returns the shared validator.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(queryName)
		if err := v.RegisterValidation("printable", validatePrintable); err != nil {
			panic(fmt.Sprintf("validation: register printable: %v", err))
		}
		validate = v
	})
	return validate
}

// Struct validates a request struct and returns nil when it passes.
func Struct(s interface{}) Errors {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{{Field: "request", Tag: "invalid", Message: err.Error()}}
	}

	out := make(Errors, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: message(fe),
		}
	}
	return out
}

func queryName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("query"), ",")
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

// comparisons maps ordering tags to the phrase used in messages.
var comparisons = map[string]string{
	"gt":  "greater than",
	"gte": "greater than or equal to",
	"lt":  "less than",
	"lte": "less than or equal to",
}

func message(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch tag := fe.Tag(); tag {
	case "required":
		return field + " is required"
	case "printable":
		return field + " must not contain control characters"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, param, unit)
	default:
		if phrase, ok := comparisons[tag]; ok {
			return fmt.Sprintf("%s must be %s %s", field, phrase, param)
		}
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}

// validatePrintable rejects control characters. Titles arrive from query
// strings and are echoed into logs and HTML.
func validatePrintable(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsControl) < 0
}
