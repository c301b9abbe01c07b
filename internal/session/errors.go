package session

import (
	"errors"
	"fmt"
)

// ErrAlreadyBootstrapped is returned when Bootstrap runs a second time
var ErrAlreadyBootstrapped = errors.New("session already bootstrapped")

// InvalidSignInError rejects sign-in arguments before any storage I/O
type InvalidSignInError struct {
	Field  string // "token" or "role"
	Reason string
}

func (e *InvalidSignInError) Error() string {
	return fmt.Sprintf("invalid sign-in: %s %s", e.Field, e.Reason)
}

// SignInError reports that the credentials could not be persisted.
// The in-memory session is left as it was before the attempt.
type SignInError struct {
	Key string
	Err error
}

func (e *SignInError) Error() string {
	return fmt.Sprintf("sign-in failed: persist %s: %v", e.Key, e.Err)
}

func (e *SignInError) Unwrap() error {
	return e.Err
}
