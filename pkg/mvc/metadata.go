package mvc

import (
	"fmt"
)

// Well-known parameter type names understood by the route builder
const (
	TypeRequest  = "*net/http.Request"
	TypeResponse = "net/http.ResponseWriter"
	TypeString   = "string"
	TypeInt      = "int"
)

// Role marks how a type participates in the container
type Role int

const (
	RoleNone Role = iota
	RoleController
	RoleService
)

// String returns the role name
func (r Role) String() string {
	switch r {
	case RoleController:
		return "controller"
	case RoleService:
		return "service"
	default:
		return "none"
	}
}

// TypeDescriptor is the generated metadata for one annotated type
type TypeDescriptor struct {
	Package      string   // import path of the declaring package
	Name         string   // simple type name
	Role         Role     // controller, service or none
	ExplicitName string   // service bean name override
	Capabilities []string // fully-qualified interface names the type satisfies
	BasePath     string   // controller route prefix

	// New returns a fresh *T
	New func() (any, error)

	Fields  []FieldDescriptor
	Methods []MethodDescriptor
}

// ID returns the fully-qualified type name
func (d TypeDescriptor) ID() string {
	if d.Package == "" {
		return d.Name
	}
	return d.Package + "." + d.Name
}

// SimpleName returns the unqualified type name
func (d TypeDescriptor) SimpleName() string {
	return d.Name
}

// FieldDescriptor describes an injection point on a type
type FieldDescriptor struct {
	Name      string
	Type      string // fully-qualified declared type, pointer stripped
	Inject    bool
	Qualifier string // explicit bean name, blank means use Type

	// Assign stores value into the field of owner
	Assign func(owner, value any) error
}

// MethodDescriptor describes a method of a controller
type MethodDescriptor struct {
	Name    string
	Path    string
	Routed  bool
	Returns bool // method has a non-error result
	Params  []ParamDescriptor

	// Invoke calls the method on owner with positional args
	Invoke func(owner any, args []any) (any, error)
}

// ParamDescriptor describes one handler parameter
type ParamDescriptor struct {
	Name  string
	Type  string
	Value string // external request parameter name, blank when unmarked
}

// Arg returns args[i] as T, or the zero value when the slot is nil
func Arg[T any](args []any, i int) T {
	var zero T
	if i < 0 || i >= len(args) || args[i] == nil {
		return zero
	}
	v, ok := args[i].(T)
	if !ok {
		panic(fmt.Sprintf("argument %d: got %T, want %T", i, args[i], zero))
	}
	return v
}

// Assign stores value into dst, checking the dynamic type
func Assign[T any](dst *T, value any) error {
	if dst == nil {
		return fmt.Errorf("nil destination")
	}
	if value == nil {
		var zero T
		*dst = zero
		return nil
	}
	v, ok := value.(T)
	if !ok {
		var zero T
		return fmt.Errorf("cannot assign %T to %T", value, zero)
	}
	*dst = v
	return nil
}
