package listing

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrDuplicate  = errors.New("duplicate entity")
	ErrNotFound   = errors.New("not found")
	ErrNetwork    = errors.New("network error")
	ErrTimeout    = errors.New("request timed out")
	ErrAuth       = errors.New("not authorized")
)

// Failure is the coarse class of an error, used for notifications, HTTP
// status mapping and retry decisions.
type Failure string

const (
	FailureNone       Failure = ""
	FailureValidation Failure = "validation"
	FailureDuplicate  Failure = "duplicate"
	FailureNotFound   Failure = "not_found"
	FailureNetwork    Failure = "network"
	FailureTimeout    Failure = "timeout"
	FailureAuth       Failure = "auth"
	FailureInternal   Failure = "internal"
)

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s %s", e.Field, e.Msg)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// DuplicateError is a ValidationError specialised to uniqueness violations:
// it matches both ErrDuplicate and ErrValidation.
type DuplicateError struct {
	Kind  string
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Kind, e.Field, e.Value)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate || target == ErrValidation
}

type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// SourceError wraps a failure reported by a remote DataSource. Class must be
// one of FailureNetwork, FailureTimeout or FailureAuth.
type SourceError struct {
	Kind  string
	Op    string
	Class Failure
	Err   error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Kind, e.Class, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

func (e *SourceError) Is(target error) bool {
	switch e.Class {
	case FailureNetwork:
		return target == ErrNetwork
	case FailureTimeout:
		return target == ErrTimeout
	case FailureAuth:
		return target == ErrAuth
	}
	return false
}

// FailureOf classifies err. Context deadlines count as timeouts and
// net.Error values as network failures.
func FailureOf(err error) Failure {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrDuplicate):
		return FailureDuplicate
	case errors.Is(err, ErrValidation):
		return FailureValidation
	case errors.Is(err, ErrNotFound):
		return FailureNotFound
	case errors.Is(err, ErrAuth):
		return FailureAuth
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	case errors.Is(err, ErrNetwork):
		return FailureNetwork
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return FailureTimeout
		}
		return FailureNetwork
	}
	return FailureInternal
}

// Retryable reports whether retrying the same request could succeed.
func Retryable(err error) bool {
	f := FailureOf(err)
	return f == FailureNetwork || f == FailureTimeout
}

// Message turns err into the single line shown to a user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var (
		dup *DuplicateError
		val *ValidationError
		nf  *NotFoundError
	)
	switch {
	case errors.As(err, &dup):
		return dup.Error()
	case errors.As(err, &val):
		return val.Error()
	case errors.As(err, &nf):
		return nf.Error()
	}
	switch FailureOf(err) {
	case FailureNotFound:
		return "The requested record was not found"
	case FailureAuth:
		return "Your session has expired or you are not allowed to do this"
	case FailureTimeout:
		return "The server took too long to respond, please retry"
	case FailureNetwork:
		return "The server could not be reached, please retry"
	}
	return "Something went wrong: " + err.Error()
}
