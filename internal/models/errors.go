package models

import "fmt"

// GeneratorError represents an error that occurred during code generation
type GeneratorError struct {
	Type        ErrorType         // type of error
	File        string            // file where error occurred
	Line        int               // line number where error occurred
	Message     string            // error message
	Cause       error             // underlying error cause
	Suggestions []string          // ways to fix the error
	Context     map[string]string // extra details for diagnostics
}

// Error implements the error interface
func (e *GeneratorError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, msg)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, msg)
	}
	return msg
}

// Unwrap returns the underlying error cause
func (e *GeneratorError) Unwrap() error {
	return e.Cause
}

// WithSuggestion appends a suggestion and returns the error
func (e *GeneratorError) WithSuggestion(s string) *GeneratorError {
	e.Suggestions = append(e.Suggestions, s)
	return e
}

// WithContext records a detail and returns the error
func (e *GeneratorError) WithContext(key, value string) *GeneratorError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}
