// Package reqvalidate provides a single shared go-playground/validator
// instance for struct-tag validation of anything the host binary decodes
// from outside the process boundary: the resolved Config, and (via the
// same ValidateStruct entry point) any request payload a future HTTP
// front-end built on top of the runtime would decode.
package reqvalidate

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	instance *validator.Validate
	once     sync.Once
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
	})
	return instance
}

// FieldError is one failed validation rule, in a format independent of
// the underlying validator library's own error type.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

// Error implements error for a single FieldError.
func (e FieldError) Error() string { return e.Message }

// ValidationError collects every FieldError a single ValidateStruct call
// produced.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// ValidateStruct validates s against its `validate:"..."` struct tags,
// returning nil when s satisfies every rule.
func ValidateStruct(s any) error {
	if err := get().Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !asValidationErrors(err, &verrs) {
			return fmt.Errorf("reqvalidate: %w", err)
		}
		out := &ValidationError{Errors: make([]FieldError, len(verrs))}
		for i, fe := range verrs {
			out.Errors[i] = FieldError{
				Field:   fe.Field(),
				Tag:     fe.Tag(),
				Param:   fe.Param(),
				Message: friendlyMessage(fe),
			}
		}
		return out
	}
	return nil
}

func asValidationErrors(err error, out *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if ok {
		*out = ve
	}
	return ok
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed validation %q", fe.Field(), fe.Tag())
	}
}
