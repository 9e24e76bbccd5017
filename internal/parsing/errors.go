package parsing

import (
	"errors"
	"fmt"
)

// ErrEmptyResume is returned for documents with no extractable text.
var ErrEmptyResume = errors.New("resume text is empty")

// Stage names the step of profile extraction that failed.
type Stage string

const (
	StageInput  Stage = "input"
	StageModel  Stage = "model"
	StageDecode Stage = "decode"
)

// ProfileError reports a failed profile extraction for one resume document.
type ProfileError struct {
	Document string
	Stage    Stage
	Cause    error
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("profile %s: %s: %v", e.Document, e.Stage, e.Cause)
}

func (e *ProfileError) Unwrap() error {
	return e.Cause
}

// IsModelUnavailable reports whether err came from the model never answering,
// as opposed to answering with something unusable.
func IsModelUnavailable(err error) bool {
	var pe *ProfileError
	return errors.As(err, &pe) && pe.Stage == StageModel
}
