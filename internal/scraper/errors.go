package scraper

import "fmt"

// PageLoadError is returned once a listing page has failed every load attempt.
// It is scoped to one page: callers report zero results and carry on.
type PageLoadError struct {
	URL      string
	Attempts int
	Cause    error
}

func (e *PageLoadError) Error() string {
	return fmt.Sprintf("failed to load %s after %d attempts: %v", e.URL, e.Attempts, e.Cause)
}

func (e *PageLoadError) Unwrap() error {
	return e.Cause
}

// CardParseError describes a job card that could not be turned into a summary.
type CardParseError struct {
	Index   int
	Message string
}

func (e *CardParseError) Error() string {
	return fmt.Sprintf("job card %d: %s", e.Index, e.Message)
}
