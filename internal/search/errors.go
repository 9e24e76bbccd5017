package search

import "fmt"

// InvalidInputError is returned when a search term or location is unusable.
// It is a user-correctable input error and is never retried.
type InvalidInputError struct {
	Field   string
	Value   string
	Message string
}

func (e *InvalidInputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("invalid input %q: %s", e.Value, e.Message)
}
