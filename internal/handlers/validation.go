package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	pkghttp "github.com/BradenHooton/portfolio/pkg/http"
	"github.com/go-playground/validator/v10"
)

// personNamePattern accepts letters from any script and whitespace
var personNamePattern = regexp.MustCompile(`^[\p{L}\s]+$`)

// Global validator instance (reused across all handlers)
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names so clients can map errors back to their inputs
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "personname", func(fl validator.FieldLevel) bool {
		return personNamePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "honeypot", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == ""
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn, true); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// ValidateSubmission validates a decoded form and returns every violation in
// field order. A nil result means the form is valid.
func ValidateSubmission(form interface{}) []pkghttp.FieldError {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []pkghttp.FieldError{{Field: "body", Message: "could not be validated"}}
	}

	fieldErrors := make([]pkghttp.FieldError, 0, len(ve))
	for _, fe := range ve {
		fieldErrors = append(fieldErrors, pkghttp.FieldError{
			Field:   fieldPath(fe),
			Message: formatValidationError(fe),
		})
	}
	return fieldErrors
}

// fieldPath drops the struct name from the namespace, so nested errors read
// like selectedFeatures[0].name
func fieldPath(fe validator.FieldError) string {
	if _, path, ok := strings.Cut(fe.Namespace(), "."); ok {
		return path
	}
	return fe.Field()
}

// formatValidationError converts a validator FieldError to a user-friendly message
func formatValidationError(fe validator.FieldError) string {
	unit := "characters"
	if k := fe.Kind(); k == reflect.Slice || k == reflect.Array {
		unit = "items"
	}

	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must have a minimum of %s %s", fe.Param(), unit)
	case "max":
		return fmt.Sprintf("must have a maximum of %s %s", fe.Param(), unit)
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "personname":
		return "may only contain letters and spaces"
	case "honeypot":
		return "is invalid"
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
