package matching

import "errors"

// ErrStrategyUnavailable marks a scoring strategy that could not produce a score for this call.
// The chain absorbs it and falls through to the next strategy.
var ErrStrategyUnavailable = errors.New("scoring strategy unavailable")
