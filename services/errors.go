package services

import "fmt"

// The economy engine surfaces exactly three caller-visible error kinds.
// Handlers map them to statuses with errors.As; anything else is a 500.
// Transient balance-source failures never reach here — the source falls back
// to its mock internally.

// ValidationError marks malformed or missing caller input. Never retried.
type ValidationError struct{ msg string }

func (e *ValidationError) Error() string { return e.msg }

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// NotFoundError marks an unknown session, player, or leaderboard metric.
type NotFoundError struct{ msg string }

func (e *NotFoundError) Error() string { return e.msg }

func NewNotFoundError(format string, args ...interface{}) error {
	return &NotFoundError{msg: fmt.Sprintf(format, args...)}
}

// ConflictError marks an operation rejected to protect an invariant, e.g.
// ending a session that is no longer active. Rejecting the replay instead of
// re-applying the reward is the point.
type ConflictError struct{ msg string }

func (e *ConflictError) Error() string { return e.msg }

func NewConflictError(format string, args ...interface{}) error {
	return &ConflictError{msg: fmt.Sprintf(format, args...)}
}
