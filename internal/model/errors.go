package model

import (
	"errors"
	"strings"
)

// ValidationError reports one or more schema constraints violated by a
// record or caller-supplied input. Records failing validation never enter
// the cache; the enclosing operation fails instead.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Issues, "\n")
}

// IsValidationError reports whether err (or any error in its chain) is a
// ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
