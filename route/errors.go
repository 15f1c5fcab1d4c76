package route

import "errors"

var (
	// ErrTooManyCombinations indicates the Cartesian product of the step
	// candidate lists exceeds the configured bound.
	ErrTooManyCombinations = errors.New("too many route combinations")
)
