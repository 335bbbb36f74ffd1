package diagram

import (
	"errors"
	"fmt"
)

// ErrNoContext is matched by every InitializationError.
var ErrNoContext = errors.New("drawing context could not be initialized")

// InitializationError is returned by New when the host cannot provide a
// drawing context. The surface is unusable in that case.
type InitializationError struct {
	Width  int
	Height int
	// Err is the host's reason, if it gave one.
	Err error
}

func (e *InitializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v (%dx%d): %v", ErrNoContext, e.Width, e.Height, e.Err)
	}
	return fmt.Sprintf("%v (%dx%d)", ErrNoContext, e.Width, e.Height)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

func (e *InitializationError) Is(target error) bool {
	return target == ErrNoContext
}
