package resume

import (
	"errors"
	"fmt"
)

// Sentinel failures. All are user-correctable and never retried.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrSizeExceeded      = errors.New("file size exceeded")
	ErrReadError         = errors.New("file could not be read")
)

// FormatError describes why a document was rejected. Kind is one of the sentinels.
type FormatError struct {
	Name    string
	Kind    error
	Message string
	Cause   error
}

func (e *FormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Name, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Name, e.Kind, e.Message)
}

// Is matches the sentinel kind.
func (e *FormatError) Is(target error) bool {
	return target == e.Kind
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}
