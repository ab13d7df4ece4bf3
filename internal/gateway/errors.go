package gateway

import (
	"errors"
	"fmt"
)

// Error indicates that a remote call failed. The message carries the
// remote-provided text verbatim; the core never retries and never logs,
// it returns the error to the calling layer for presentation.
type Error struct {
	Op      string
	Message string
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// IsGatewayError reports whether err (or any error in its chain) is a
// gateway Error.
func IsGatewayError(err error) bool {
	var ge *Error
	return errors.As(err, &ge)
}

// AuthError indicates that authentication has failed or expired.
// It is returned when the remote service answers with HTTP 401.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an
// AuthError.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
