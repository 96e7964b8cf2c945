package dilemma

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const CodeValidation = "validation"

// ValidationError is returned when a dilemma lacks a required field.
type ValidationError struct {
	Code    string
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newValidationError(fields []string) *ValidationError {
	return &ValidationError{
		Code:    CodeValidation,
		Message: "missing required field(s): " + strings.Join(fields, ", "),
		Fields:  slices.Clone(fields),
	}
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
