package types

import "fmt"

// ValidationError indicates malformed candidate-supplied structured data.
// It is always recoverable: callers substitute an empty or default value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}
