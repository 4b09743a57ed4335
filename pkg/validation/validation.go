// Package validation runs go-playground struct tags and maps failures onto
// INVALID_INPUT errors keyed by json field name.
package validation

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/cropdev/crop-backend/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("trimmed_min", trimmedMin)
	_ = v.RegisterValidation("http_url", httpURL)
	return v
}

// Struct validates dest and returns nil or an INVALID_INPUT error whose
// details map each failing field to a short reason.
func Struct(dest any) error {
	if err := validate.Struct(dest); err != nil {
		return formatErrors(err)
	}
	return nil
}

// Var validates a single value against tag and reports failures under field.
func Var(field string, value any, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return pkgerrors.Wrap(pkgerrors.CodeInvalidInput, err, "invalid input")
	}
	return pkgerrors.InvalidInput("invalid input").WithDetails(map[string]string{field: message(errs[0])})
}

func formatErrors(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeInvalidInput, err, "invalid input")
	}
	details := make(map[string]string, len(errs))
	for _, fieldErr := range errs {
		details[fieldName(fieldErr)] = message(fieldErr)
	}
	return pkgerrors.InvalidInput("invalid input").WithDetails(details)
}

func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "trimmed_min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	case "http_url", "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	}
	return "is invalid"
}

// trimmedMin counts runes after trimming surrounding whitespace.
func trimmedMin(fl validator.FieldLevel) bool {
	var min int
	if _, err := fmt.Sscan(fl.Param(), &min); err != nil {
		return false
	}
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return true
		}
		field = field.Elem()
	}
	return utf8.RuneCountInString(strings.TrimSpace(field.String())) >= min
}

func httpURL(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return true
		}
		field = field.Elem()
	}
	parsed, err := url.Parse(strings.TrimSpace(field.String()))
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
