package planner

import (
	"errors"
	"fmt"
)

// Precondition failures on Select. Selection errors are fatal to a planning
// run; no partial plan is returned.
var (
	ErrEmptyCorpus    = errors.New("planner: recipe corpus is empty")
	ErrInvalidHorizon = errors.New("planner: horizon must be at least one day")
)

// NarrationError wraps a failure from the external narration service. It is
// recoverable: the structured plan survives in the artifact and narration can
// be retried without recomputing selection.
type NarrationError struct {
	Err error
}

func (e *NarrationError) Error() string {
	return fmt.Sprintf("narration service failed: %v", e.Err)
}

func (e *NarrationError) Unwrap() error {
	return e.Err
}
