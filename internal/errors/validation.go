package errors

import (
	"fmt"
	"strings"
)

// FieldError is a single violated field in a validated document.
type FieldError struct {
	// Path is the dotted/indexed field path, e.g. "skills[1].level".
	Path string
	// Constraint names what was violated: "required", "type", or a
	// validator rule such as "lte".
	Constraint string
	// Param carries the rule parameter ("100" for lte=100), if any.
	Param   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (fe *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", fe.Path, fe.Message)
}

// ValidationErrors lists every violated field of one document.
type ValidationErrors struct {
	Document string
	Fields   []*FieldError
}

// Error implements the error interface.
func (ve *ValidationErrors) Error() string {
	if len(ve.Fields) == 0 {
		return "no validation errors"
	}

	var b strings.Builder
	if ve.Document != "" {
		b.WriteString(ve.Document)
		b.WriteString(": ")
	}
	if len(ve.Fields) == 1 {
		b.WriteString(ve.Fields[0].Error())
		return b.String()
	}

	fmt.Fprintf(&b, "validation failed with %d errors", len(ve.Fields))
	for _, fe := range ve.Fields {
		b.WriteString("\n  - ")
		b.WriteString(fe.Error())
	}
	return b.String()
}

// Add appends a field error.
func (ve *ValidationErrors) Add(fe *FieldError) {
	ve.Fields = append(ve.Fields, fe)
}

// AddField appends a field error built from its parts.
func (ve *ValidationErrors) AddField(path, constraint string, value interface{}, message string) {
	ve.Add(&FieldError{Path: path, Constraint: constraint, Value: value, Message: message})
}

// HasErrors returns true if any field failed.
func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Fields) > 0
}

// Field returns the first error recorded for path, or nil.
func (ve *ValidationErrors) Field(path string) *FieldError {
	for _, fe := range ve.Fields {
		if fe.Path == path {
			return fe
		}
	}
	return nil
}

// Map flattens the errors to path -> message, the shape the entry
// validation endpoint returns.
func (ve *ValidationErrors) Map() map[string]string {
	out := make(map[string]string, len(ve.Fields))
	for _, fe := range ve.Fields {
		if _, ok := out[fe.Path]; !ok {
			out[fe.Path] = fe.Message
		}
	}
	return out
}
