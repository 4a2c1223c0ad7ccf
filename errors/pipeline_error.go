package errors

import (
	"fmt"
)

// ConfigurationError occurs when settings are missing or invalid. It is
// always raised before any I/O against input or output locations.
type ConfigurationError struct {
	Reason string
	Err    error
}

// Error returns a textual representation of this ConfigurationError
func (e *ConfigurationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
}

// Unwrap returns the underlying cause of this ConfigurationError
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// InputReadError occurs when the input location is missing, unreadable or unparsable
type InputReadError struct {
	Location string
	Err      error
}

// Error returns a textual representation of this InputReadError
func (e *InputReadError) Error() string {
	return fmt.Sprintf("failed to read input %s: %v", e.Location, e.Err)
}

// Unwrap returns the underlying cause of this InputReadError
func (e *InputReadError) Unwrap() error {
	return e.Err
}

// OutputWriteError occurs when the output location cannot be written, or serialization fails
type OutputWriteError struct {
	Location string
	Err      error
}

// Error returns a textual representation of this OutputWriteError
func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("failed to write output %s: %v", e.Location, e.Err)
}

// Unwrap returns the underlying cause of this OutputWriteError
func (e *OutputWriteError) Unwrap() error {
	return e.Err
}
