package pickup

import "github.com/pkg/errors"

var (
	// ErrNotFound is returned when an event, escalation, or attempt does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned for operations that are not legal in the
	// record's current state, e.g. MarkPickedUp on an unconfirmed escalation.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrVersionConflict is returned by stores when a save loses an optimistic
	// concurrency race. Callers reload and retry or surface a conflict.
	ErrVersionConflict = errors.New("version conflict")
)
