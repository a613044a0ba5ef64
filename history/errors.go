package history

import "errors"

var (
	// ErrRepositoryRequired is returned when a store is created without a repository.
	ErrRepositoryRequired = errors.New("history repository required")

	// ErrInvalidCapacity is returned for a capacity below 1.
	ErrInvalidCapacity = errors.New("capacity must be at least 1")

	// ErrReadFailed wraps storage failures while reading the history.
	ErrReadFailed = errors.New("history read failed")

	// ErrWriteFailed wraps storage failures while writing the history.
	ErrWriteFailed = errors.New("history write failed")
)
