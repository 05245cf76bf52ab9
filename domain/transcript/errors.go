package transcript

import "errors"

var (
	// ErrOrphanResult indicates a result turn without a matching
	// invocation turn before it.
	ErrOrphanResult = errors.New("result without matching invocation")

	// ErrMalformedTurn indicates a turn missing the fields its kind
	// requires.
	ErrMalformedTurn = errors.New("malformed turn")
)
