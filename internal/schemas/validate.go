// Package schemas checks decoded model output against JSON Schema documents.
package schemas

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Violation is one schema rule broken at Field.
type Violation struct {
	Field   string
	Message string
}

// MismatchError lists every violation found in a document.
type MismatchError struct {
	Schema     string
	Violations []Violation
}

func (e *MismatchError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "document does not match %s:", e.Schema)
	for _, v := range e.Violations {
		fmt.Fprintf(&sb, " %s: %s;", v.Field, v.Message)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// Fields returns the offending field paths in report order.
func (e *MismatchError) Fields() []string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field)
	}
	return fields
}

// CompileError means the schema document itself, or the input, could not be loaded.
type CompileError struct {
	Schema string
	Cause  error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("schema %s: %v", e.Schema, e.Cause)
}

func (e *CompileError) Unwrap() error {
	return e.Cause
}

// compiled schemas keyed by document text
var compiled sync.Map

func compile(name, document string) (*gojsonschema.Schema, error) {
	if s, ok := compiled.Load(document); ok {
		return s.(*gojsonschema.Schema), nil
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(document))
	if err != nil {
		return nil, &CompileError{Schema: name, Cause: err}
	}
	compiled.Store(document, s)
	return s, nil
}

// ValidateObject checks a decoded value (maps, slices, scalars) against the
// named schema document.
func ValidateObject(name, document string, value any) error {
	return validate(name, document, gojsonschema.NewGoLoader(value))
}

// ValidateJSON checks raw JSON text against the named schema document.
func ValidateJSON(name, document, jsonText string) error {
	return validate(name, document, gojsonschema.NewStringLoader(jsonText))
}

func validate(name, document string, input gojsonschema.JSONLoader) error {
	schema, err := compile(name, document)
	if err != nil {
		return err
	}

	result, err := schema.Validate(input)
	if err != nil {
		return &CompileError{Schema: name, Cause: err}
	}
	if result.Valid() {
		return nil
	}

	mismatch := &MismatchError{Schema: name, Violations: make([]Violation, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		mismatch.Violations = append(mismatch.Violations, Violation{Field: field, Message: desc.Description()})
	}
	return mismatch
}
