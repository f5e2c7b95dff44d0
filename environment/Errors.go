package environment

import "errors"

var (
	// ErrInvalidState indicates an environment was stepped before it
	// was reset, or after its episode ended without another reset
	ErrInvalidState = errors.New("environment: step called in invalid " +
		"state")

	// ErrInvalidAction indicates an action that cannot be clipped into
	// the legal action space, such as one of the wrong dimension or one
	// containing NaN
	ErrInvalidAction = errors.New("environment: invalid action")

	// ErrInvalidConfig indicates an environment configuration with
	// values outside their valid ranges
	ErrInvalidConfig = errors.New("environment: invalid configuration")
)
