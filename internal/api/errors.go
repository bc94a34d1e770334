package api

import (
	"errors"
	"fmt"
)

// AuthError indicates that authentication failed or the bearer token has
// expired. The session layer downgrades to unauthenticated on it; it is
// never fatal to the process.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

// ValidationError carries the server's verbatim message for a rejected
// payload (e.g. a missing required title).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NotFoundError indicates a stale identifier: the referenced entity no
// longer exists on the server.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return "not found"
	}
	return e.Message
}

// NetworkError wraps a transport-level failure. The user decides whether
// to retry; nothing retries automatically.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsNotFound reports whether err (or any error in its chain) is a NotFoundError.
func IsNotFound(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// UserMessage extracts the message a user should see for err. Validation
// and auth errors surface the server's wording verbatim; transport errors
// get a generic retry prompt.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var (
		authErr *AuthError
		valErr  *ValidationError
		nfErr   *NotFoundError
		netErr  *NetworkError
	)
	switch {
	case errors.As(err, &valErr):
		return valErr.Message
	case errors.As(err, &authErr):
		return authErr.Message
	case errors.As(err, &nfErr):
		return nfErr.Error()
	case errors.As(err, &netErr):
		return "connection failed; check your network and try again"
	}
	return err.Error()
}
