package llm

import "fmt"

// GenerationError indicates a content-generation call failed, timed out, or
// returned an empty or unparsable response. It is never surfaced to the end
// user; callers recover with deterministic fallback content and log it for
// operators.
type GenerationError struct {
	Intent string // which prompt intent was being generated
	Cause  error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation failed (%s): %v", e.Intent, e.Cause)
	}
	return fmt.Sprintf("generation failed (%s)", e.Intent)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// NewGenerationError wraps err as a GenerationError for the given intent.
func NewGenerationError(intent string, err error) *GenerationError {
	return &GenerationError{Intent: intent, Cause: err}
}
