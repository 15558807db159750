package annotations

import "fmt"

// AnnotationError reports a malformed or invalid annotation
type AnnotationError struct {
	Location SourceLocation
	Raw      string
	Message  string
	Cause    error
}

func newError(loc SourceLocation, raw, format string, args ...any) *AnnotationError {
	return &AnnotationError{Location: loc, Raw: raw, Message: fmt.Sprintf(format, args...)}
}

func wrapError(loc SourceLocation, raw string, cause error, format string, args ...any) *AnnotationError {
	e := newError(loc, raw, format, args...)
	e.Cause = cause
	return e
}

// Error implements the error interface
func (e *AnnotationError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.Location.File == "" {
		return msg
	}
	return e.Location.String() + ": " + msg
}

// Unwrap returns the underlying cause
func (e *AnnotationError) Unwrap() error {
	return e.Cause
}
