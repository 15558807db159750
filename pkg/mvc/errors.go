package mvc

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode represents the kind of failure raised by the container
type ErrorCode int

const (
	UnknownErrorCode ErrorCode = iota

	// Bootstrap errors
	ConfigurationErrorCode
	ConstructionErrorCode
	DuplicateBeanErrorCode
	InjectionErrorCode
	DuplicateRouteErrorCode

	// Request errors
	NotFoundErrorCode
	BindingErrorCode
	HandlerInvocationErrorCode
)

// String returns the string representation of the error code
func (c ErrorCode) String() string {
	switch c {
	case ConfigurationErrorCode:
		return "ConfigurationError"
	case ConstructionErrorCode:
		return "ConstructionError"
	case DuplicateBeanErrorCode:
		return "DuplicateBeanError"
	case InjectionErrorCode:
		return "InjectionError"
	case DuplicateRouteErrorCode:
		return "DuplicateRouteError"
	case NotFoundErrorCode:
		return "NotFoundError"
	case BindingErrorCode:
		return "BindingError"
	case HandlerInvocationErrorCode:
		return "HandlerInvocationError"
	default:
		return "UnknownError"
	}
}

// Error is the single error type returned by the container and dispatcher
type Error struct {
	Code    ErrorCode      // kind of failure
	Message string         // human readable message
	Cause   error          // underlying cause, if any
	Context map[string]any // extra key/value details
	Stack   string         // frames captured at the dispatch boundary, if any
}

// Sentinels for errors.Is matching by code
var (
	ErrConfiguration     = &Error{Code: ConfigurationErrorCode}
	ErrConstruction      = &Error{Code: ConstructionErrorCode}
	ErrDuplicateBean     = &Error{Code: DuplicateBeanErrorCode}
	ErrInjection         = &Error{Code: InjectionErrorCode}
	ErrDuplicateRoute    = &Error{Code: DuplicateRouteErrorCode}
	ErrNotFound          = &Error{Code: NotFoundErrorCode}
	ErrBinding           = &Error{Code: BindingErrorCode}
	ErrHandlerInvocation = &Error{Code: HandlerInvocationErrorCode}
)

func newError(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Code.String())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.Context[k])
		}
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// With attaches a context value and returns the error
func (e *Error) With(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// CodeOf returns the code of the first *Error in err's chain
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return UnknownErrorCode
}
