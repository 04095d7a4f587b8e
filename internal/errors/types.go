// Package errors defines the structured error types shared by the content
// pipeline, the renderer and the site server.
//
// Build-time failures (validation, compilation, duplicate identifiers) are
// collected per batch and abort the build. Lookup misses are the only kind
// meant to be recovered at request time; render errors indicate a broken
// component registry and are surfaced loudly.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeCompilation ErrorType = "compilation"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeRender      ErrorType = "render"
	ErrorTypeConfig      ErrorType = "config"
	ErrorTypeIO          ErrorType = "io"
	ErrorTypeInternal    ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeValidationFailed  = "ERR_VALIDATION_FAILED"
	ErrCodeDuplicateSlug     = "ERR_DUPLICATE_SLUG"
	ErrCodeMalformedMarkup   = "ERR_MALFORMED_MARKUP"
	ErrCodeUnknownComponent  = "ERR_UNKNOWN_COMPONENT"
	ErrCodeFrontmatter       = "ERR_FRONTMATTER"
	ErrCodeDocumentNotFound  = "ERR_DOCUMENT_NOT_FOUND"
	ErrCodeUnknownCollection = "ERR_UNKNOWN_COLLECTION"
	ErrCodeUnresolvedTag     = "ERR_UNRESOLVED_TAG"
	ErrCodeBodyCorrupt       = "ERR_BODY_CORRUPT"
	ErrCodeConfigInvalid     = "ERR_CONFIG_INVALID"
	ErrCodeFileNotFound      = "ERR_FILE_NOT_FOUND"
	ErrCodeInternalError     = "ERR_INTERNAL"
)

// SiteError is a structured error type with location context.
type SiteError struct {
	Type     ErrorType
	Code     string
	Message  string
	Cause    error
	FilePath string
	Line     int
	Context  map[string]interface{}
}

// Error implements the error interface.
func (e *SiteError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.FilePath != "" {
		location := e.FilePath
		if e.Line > 0 {
			location += fmt.Sprintf(":%d", e.Line)
		}
		parts = append(parts, location)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *SiteError) Unwrap() error {
	return e.Cause
}

// Is matches another SiteError by type and code.
func (e *SiteError) Is(target error) bool {
	var t *SiteError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *SiteError) WithContext(key string, value interface{}) *SiteError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithLocation adds file location information.
func (e *SiteError) WithLocation(filePath string, line int) *SiteError {
	e.FilePath = filePath
	e.Line = line

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *SiteError {
	return &SiteError{Type: ErrorTypeValidation, Code: code, Message: message}
}

// NewCompilationError creates a rich-text compilation error.
func NewCompilationError(code, message string, cause error) *SiteError {
	return &SiteError{Type: ErrorTypeCompilation, Code: code, Message: message, Cause: cause}
}

// NewNotFoundError creates a lookup miss.
func NewNotFoundError(code, message string) *SiteError {
	return &SiteError{Type: ErrorTypeNotFound, Code: code, Message: message}
}

// NewRenderError creates a render-evaluation error.
func NewRenderError(code, message string, cause error) *SiteError {
	return &SiteError{Type: ErrorTypeRender, Code: code, Message: message, Cause: cause}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *SiteError {
	return &SiteError{Type: ErrorTypeConfig, Code: code, Message: message}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *SiteError {
	return &SiteError{Type: ErrorTypeIO, Code: code, Message: message, Cause: cause}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *SiteError {
	return &SiteError{Type: ErrorTypeInternal, Code: code, Message: message, Cause: cause}
}

// TypeOf reports the ErrorType of the first SiteError in err's chain.
func TypeOf(err error) (ErrorType, bool) {
	var se *SiteError
	if errors.As(err, &se) {
		return se.Type, true
	}

	return "", false
}

// IsNotFound checks if an error is a recoverable lookup miss.
func IsNotFound(err error) bool {
	t, ok := TypeOf(err)
	return ok && t == ErrorTypeNotFound
}

// IsRender checks if an error came from render evaluation.
func IsRender(err error) bool {
	t, ok := TypeOf(err)
	return ok && t == ErrorTypeRender
}

// IsCompilation checks if an error came from the rich-text compiler.
func IsCompilation(err error) bool {
	t, ok := TypeOf(err)
	return ok && t == ErrorTypeCompilation
}

// IsValidation checks if an error is a schema or config validation failure.
func IsValidation(err error) bool {
	t, ok := TypeOf(err)
	if ok && t == ErrorTypeValidation {
		return true
	}
	var ve *ValidationErrors
	return errors.As(err, &ve)
}
