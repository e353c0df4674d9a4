package interp

import "errors"

var (
	// ErrDegenerateSpan is returned when two consecutive axis or level
	// values are equal, which would feed a zero denominator into a
	// derivative or coefficient computation.
	ErrDegenerateSpan = errors.New("interp: zero span between consecutive points")

	// ErrTooFewPoints is returned when a curve has fewer than two points.
	ErrTooFewPoints = errors.New("interp: at least two points required")

	// ErrShapeMismatch is returned when paired inputs disagree in length.
	ErrShapeMismatch = errors.New("interp: input lengths do not match")
)
