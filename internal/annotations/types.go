package annotations

import "fmt"

// Prefix is the comment marker that introduces an annotation
const Prefix = "mvc"

// AnnotationType represents the type of annotation
type AnnotationType int

const (
	ControllerAnnotation AnnotationType = iota
	ServiceAnnotation
	RouteAnnotation
	InjectAnnotation
	ParamAnnotation
)

// String returns the string representation of the annotation type
func (a AnnotationType) String() string {
	switch a {
	case ControllerAnnotation:
		return "controller"
	case ServiceAnnotation:
		return "service"
	case RouteAnnotation:
		return "route"
	case InjectAnnotation:
		return "inject"
	case ParamAnnotation:
		return "param"
	default:
		return "unknown"
	}
}

// ParseAnnotationType converts string to AnnotationType
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case "controller":
		return ControllerAnnotation, nil
	case "service":
		return ServiceAnnotation, nil
	case "route":
		return RouteAnnotation, nil
	case "inject":
		return InjectAnnotation, nil
	case "param":
		return ParamAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown annotation type: %s", s)
	}
}

// SourceLocation represents the location of an annotation in source code
type SourceLocation struct {
	File   string // File path
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// String returns file:line:column, dropping unknown parts
func (s SourceLocation) String() string {
	switch {
	case s.File == "":
		return "unknown location"
	case s.Line == 0:
		return s.File
	case s.Column == 0:
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	}
}

// ParsedAnnotation represents a fully parsed annotation with type-safe parameters
type ParsedAnnotation struct {
	Type       AnnotationType // Annotation type enum
	Args       []string       // Positional arguments in source order
	Parameters map[string]any // Named parameters converted per schema
	Location   SourceLocation // Source location
	Raw        string         // Original annotation text
}

// Arg returns positional argument i, or "" when absent
func (p *ParsedAnnotation) Arg(i int) string {
	if i < 0 || i >= len(p.Args) {
		return ""
	}
	return p.Args[i]
}

// HasParameter reports whether the parameter was given
func (p *ParsedAnnotation) HasParameter(paramName string) bool {
	_, ok := p.Parameters[paramName]
	return ok
}

// GetString returns a string parameter value with optional default
func (p *ParsedAnnotation) GetString(paramName string, defaultValue ...string) string {
	if value, exists := p.Parameters[paramName]; exists {
		if strValue, ok := value.(string); ok {
			return strValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// GetBool returns a boolean parameter value with optional default
func (p *ParsedAnnotation) GetBool(paramName string, defaultValue ...bool) bool {
	if value, exists := p.Parameters[paramName]; exists {
		if boolValue, ok := value.(bool); ok {
			return boolValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return false
}

// GetStringSlice returns a string slice parameter value with optional default
func (p *ParsedAnnotation) GetStringSlice(paramName string, defaultValue ...[]string) []string {
	if value, exists := p.Parameters[paramName]; exists {
		if sliceValue, ok := value.([]string); ok {
			return sliceValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return nil
}

// ParameterType represents the type of a parameter
type ParameterType int

const (
	StringType ParameterType = iota
	BoolType
	StringSliceType
)

// String returns the parameter type name
func (p ParameterType) String() string {
	switch p {
	case StringType:
		return "string"
	case BoolType:
		return "bool"
	case StringSliceType:
		return "[]string"
	default:
		return "unknown"
	}
}

// ParameterSpec defines one named parameter of an annotation
type ParameterSpec struct {
	Type        ParameterType
	Required    bool
	Description string
	Validator   func(any) error
}

// PositionalSpec defines one positional argument of an annotation
type PositionalSpec struct {
	Name        string
	Required    bool
	Description string
	Validator   func(string) error
}

// AnnotationSchema defines the accepted shape of an annotation type
type AnnotationSchema struct {
	Type        AnnotationType
	Description string
	Positional  []PositionalSpec
	Parameters  map[string]ParameterSpec
	Examples    []string
}
