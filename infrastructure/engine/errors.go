package engine

import "errors"

var (
	// ErrEmptyStep indicates a step whose payload is missing for its kind.
	ErrEmptyStep = errors.New("step payload is empty")

	// ErrUnknownStep indicates an unrecognized step kind.
	ErrUnknownStep = errors.New("unknown step kind")

	// ErrMalformedResponse indicates the backend returned output that
	// could not be parsed into a step.
	ErrMalformedResponse = errors.New("malformed engine response")

	// ErrScriptExhausted indicates a scripted engine ran out of steps.
	ErrScriptExhausted = errors.New("scripted engine has no more steps")
)
