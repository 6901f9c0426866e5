package business

import (
	"errors"
	"fmt"
)

// ValidationError is a business-rule rejection (self-swap, bad amount,
// duplicate submission). Upstream maps it to a 400-class response.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown entity id, distinct from validation
// failures so upstream can map it to a 404-equivalent.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// UnexpectedError wraps infrastructure failures (database, provider calls)
// into a single generic kind. The cause is preserved for operator-side
// diagnosis; the user-facing message stays generic.
type UnexpectedError struct {
	Cause error
}

func (e *UnexpectedError) Error() string {
	return "unexpected internal error"
}

func (e *UnexpectedError) Unwrap() error {
	return e.Cause
}

// WrapUnexpected wraps err as an UnexpectedError unless it already carries
// a business error type. Nil passes through.
func WrapUnexpected(err error) error {
	if err == nil {
		return nil
	}
	var v *ValidationError
	var n *NotFoundError
	var u *UnexpectedError
	if errors.As(err, &v) || errors.As(err, &n) || errors.As(err, &u) {
		return err
	}
	return &UnexpectedError{Cause: err}
}

// IsValidation reports whether err is a business-rule rejection.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is an unknown-entity error.
func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}
