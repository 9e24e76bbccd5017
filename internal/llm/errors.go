package llm

import "fmt"

// ExtractionAPIError means every attempt to reach the model failed.
type ExtractionAPIError struct {
	Attempts int
	Cause    error
}

func (e *ExtractionAPIError) Error() string {
	return fmt.Sprintf("LLM call failed after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *ExtractionAPIError) Unwrap() error {
	return e.Cause
}

// ExtractionParseError means the model answered but the answer was not a usable
// JSON object. Raw holds the unmodified response for diagnostics.
type ExtractionParseError struct {
	Raw     string
	Message string
	Cause   error
}

func (e *ExtractionParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ExtractionParseError) Unwrap() error {
	return e.Cause
}
