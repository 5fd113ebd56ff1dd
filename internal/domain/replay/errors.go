package replay

import "errors"

// Sentinel error kinds for this package.
var (
	// ErrDegenerateRating reports a non-finite mean or a non-positive spread
	// produced by the rating model. It aborts the replay.
	ErrDegenerateRating = errors.New("degenerate rating")
)
