package models

// ComponentKind represents the role of an annotated struct
type ComponentKind int

const (
	ComponentController ComponentKind = iota
	ComponentService
)

// String returns the kind name
func (k ComponentKind) String() string {
	switch k {
	case ComponentController:
		return "controller"
	case ComponentService:
		return "service"
	default:
		return "unknown"
	}
}

// ReturnKind represents the result list of a handler
type ReturnKind int

const (
	ReturnNone       ReturnKind = iota // func()
	ReturnValue                        // func() T
	ReturnError                        // func() error
	ReturnValueError                   // func() (T, error)
)

// ErrorType represents different types of generator errors
type ErrorType int

const (
	ErrorTypeAnnotationSyntax ErrorType = iota
	ErrorTypeValidation
	ErrorTypeGeneration
	ErrorTypeFileSystem
	ErrorTypeCapability
)

// String returns the error type name
func (e ErrorType) String() string {
	switch e {
	case ErrorTypeAnnotationSyntax:
		return "annotation syntax"
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeGeneration:
		return "generation"
	case ErrorTypeFileSystem:
		return "file system"
	case ErrorTypeCapability:
		return "capability"
	default:
		return "unknown"
	}
}
