package usecase

import (
	"errors"
	"fmt"

	"greeting-agent/internal/domain"
)

type ErrorCode string

const (
	ErrorInvalidInput ErrorCode = "INVALID_INPUT"
	ErrorNotFound     ErrorCode = "NOT_FOUND"
	ErrorConflict     ErrorCode = "CONFLICT"
	ErrorInternal     ErrorCode = "INTERNAL_ERROR"
)

type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}

// storeError maps a session store failure onto the error taxonomy.
func storeError(reason string, err error) *Error {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return newError(ErrorNotFound, "session_not_found", err)
	case errors.Is(err, domain.ErrVersionConflict):
		return newError(ErrorConflict, "session_conflict", err)
	}
	return newError(ErrorInternal, reason, err)
}
