package trace

import "errors"

// Domain errors for trace store operations.
var (
	// ErrTraceNotFound is returned when a trace does not exist.
	ErrTraceNotFound = errors.New("trace not found")

	// ErrTraceExists is returned when saving a trace whose ID is taken.
	ErrTraceExists = errors.New("trace already exists")

	// ErrInvalidTraceID is returned for an empty or malformed trace ID.
	ErrInvalidTraceID = errors.New("invalid trace ID")

	// ErrConnectionFailed is returned when the store backend is
	// unreachable.
	ErrConnectionFailed = errors.New("store connection failed")
)
