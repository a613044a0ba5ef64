package session

import "errors"

var (
	// ErrSearcherRequired is returned when a session is created without a searcher.
	ErrSearcherRequired = errors.New("searcher required")

	// ErrInvalidDelay is returned for a negative debounce delay.
	ErrInvalidDelay = errors.New("debounce delay cannot be negative")

	// ErrInvalidLimits is returned when the limits are not positive or the
	// expanded limit is below the initial one.
	ErrInvalidLimits = errors.New("invalid result limits")
)
