package models

import (
	"errors"
	"fmt"
)

// ErrAuthenticationExpired signals that the caller's credential is invalid or
// expired. It is a single opaque signal: whatever the underlying cause, the
// only recovery is to log in again.
var ErrAuthenticationExpired = errors.New("authentication expired")

// ValidationError reports a field that failed validation. Records that fail
// validation are rejected before any persistence attempt.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
