package domain

import (
	"errors"
	"fmt"
)

// PlanningFailedNotice is the single user-visible message for transport and
// response-shape failures. Internal detail goes to the log only.
const PlanningFailedNotice = "optimization failed"

// ValidationReason identifies which user-input precondition failed.
type ValidationReason string

const (
	ReasonMissingName        ValidationReason = "MissingName"
	ReasonInvalidWeight      ValidationReason = "InvalidWeight"
	ReasonInvalidValue       ValidationReason = "InvalidValue"
	ReasonNoLocationSelected ValidationReason = "NoLocationSelected"
	ReasonNoPendingSelection ValidationReason = "NoPendingSelection"
	ReasonEmptyRegistry      ValidationReason = "EmptyRegistry"
	ReasonInvalidCapacity    ValidationReason = "InvalidCapacity"
	ReasonUnknownAlgorithm   ValidationReason = "UnknownAlgorithm"
	ReasonInvalidCoordinate  ValidationReason = "InvalidCoordinate"
)

// ValidationError is a locally recoverable user-input failure.
// It is never sent to the planner.
type ValidationError struct {
	Reason ValidationReason
	Detail string
}

var (
	ErrMissingName        = &ValidationError{Reason: ReasonMissingName}
	ErrInvalidWeight      = &ValidationError{Reason: ReasonInvalidWeight}
	ErrInvalidValue       = &ValidationError{Reason: ReasonInvalidValue}
	ErrNoLocationSelected = &ValidationError{Reason: ReasonNoLocationSelected}
	ErrNoPendingSelection = &ValidationError{Reason: ReasonNoPendingSelection}
	ErrEmptyRegistry      = &ValidationError{Reason: ReasonEmptyRegistry}
	ErrInvalidCapacity    = &ValidationError{Reason: ReasonInvalidCapacity}
	ErrUnknownAlgorithm   = &ValidationError{Reason: ReasonUnknownAlgorithm}
	ErrInvalidCoordinate  = &ValidationError{Reason: ReasonInvalidCoordinate}
)

func NewValidationError(reason ValidationReason, format string, args ...any) *ValidationError {
	return &ValidationError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return "validation: " + string(e.Reason)
	}
	return fmt.Sprintf("validation: %s: %s", e.Reason, e.Detail)
}

// Is matches on Reason so callers can use errors.Is(err, ErrInvalidWeight).
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Reason == e.Reason
}

// TransportError covers unreachable planner, timeouts and non-2xx statuses.
// StatusCode is zero when no response was received.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport: %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ResponseShapeError reports a planner body that is malformed or missing
// expected fields.
type ResponseShapeError struct {
	Field string
	Err   error
}

func (e *ResponseShapeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("response shape: %v", e.Err)
	}
	return fmt.Sprintf("response shape: field %q: %v", e.Field, e.Err)
}

func (e *ResponseShapeError) Unwrap() error { return e.Err }

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPlanningFailure reports whether err is a transport or response-shape failure.
func IsPlanningFailure(err error) bool {
	var te *TransportError
	var se *ResponseShapeError
	return errors.As(err, &te) || errors.As(err, &se)
}
