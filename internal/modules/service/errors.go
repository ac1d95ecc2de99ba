package service

import (
	"errors"
	"fmt"

	"github.com/saas-factory/api/internal/modules/repo"
)

// Error kinds. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrAuthRequired     = errors.New("authentication required")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrValidation       = errors.New("validation error")
	ErrRateLimited      = errors.New("rate limited")
	ErrUpstream         = errors.New("upstream failure")
	ErrTimeout          = errors.New("timeout")
)

// Error carries a user-facing message, its kind and the underlying cause.
type Error struct {
	Kind  error
	Msg   string
	Cause error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind, cause error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// notFoundOr turns repo.ErrNotFound into ErrNotFound with a message naming what.
func notFoundOr(err error, what string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return wrapError(ErrNotFound, err, "%s not found", what)
	}
	return err
}
