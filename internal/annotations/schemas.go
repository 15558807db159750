package annotations

import (
	"fmt"
	"go/token"
	"strings"
)

// Built-in annotation schemas

// ControllerAnnotationSchema defines the schema for //mvc::controller annotations
var ControllerAnnotationSchema = AnnotationSchema{
	Type:        ControllerAnnotation,
	Description: "Marks a struct as a controller whose methods may be routed",
	Examples: []string{
		"//mvc::controller",
	},
}

// ServiceAnnotationSchema defines the schema for //mvc::service annotations
var ServiceAnnotationSchema = AnnotationSchema{
	Type:        ServiceAnnotation,
	Description: "Marks a struct as an injectable service",
	Parameters: map[string]ParameterSpec{
		"Name": {
			Type:        StringType,
			Description: "Explicit bean name; replaces the interface-derived names",
			Validator:   ValidateBeanName,
		},
		"Implements": {
			Type:        StringSliceType,
			Description: "Interfaces the service is bound under, as pkg.Iface or import/path.Iface",
			Validator:   ValidateTypeNames,
		},
	},
	Examples: []string{
		"//mvc::service",
		"//mvc::service -Name=greeter",
		"//mvc::service -Implements=service.Greeter,service.Namer",
	},
}

// RouteAnnotationSchema defines the schema for //mvc::route annotations
var RouteAnnotationSchema = AnnotationSchema{
	Type:        RouteAnnotation,
	Description: "Sets a controller's base path, or maps a controller method to a path",
	Positional: []PositionalSpec{
		{
			Name:        "path",
			Required:    true,
			Description: "URL path; slashes are collapsed when routes are built",
			Validator:   ValidateRoutePath,
		},
	},
	Examples: []string{
		"//mvc::route /test",
		"//mvc::route /add",
	},
}

// InjectAnnotationSchema defines the schema for //mvc::inject annotations
var InjectAnnotationSchema = AnnotationSchema{
	Type:        InjectAnnotation,
	Description: "Marks a field to receive a bean after instantiation",
	Parameters: map[string]ParameterSpec{
		"Name": {
			Type:        StringType,
			Description: "Bean name to inject; defaults to the field's type",
			Validator:   ValidateBeanName,
		},
	},
	Examples: []string{
		"//mvc::inject",
		"//mvc::inject -Name=greeter",
	},
}

// ParamAnnotationSchema defines the schema for //mvc::param annotations
var ParamAnnotationSchema = AnnotationSchema{
	Type:        ParamAnnotation,
	Description: "Binds a handler parameter to a request parameter",
	Positional: []PositionalSpec{
		{
			Name:        "param",
			Required:    true,
			Description: "Name of the Go parameter",
			Validator:   ValidateIdentifier,
		},
	},
	Parameters: map[string]ParameterSpec{
		"Name": {
			Type:        StringType,
			Description: "Request parameter name; defaults to the Go parameter name",
			Validator:   ValidateBeanName,
		},
	},
	Examples: []string{
		"//mvc::param name",
		"//mvc::param userID -Name=id",
	},
}

// BuiltinSchemas returns every built-in schema
func BuiltinSchemas() []AnnotationSchema {
	return []AnnotationSchema{
		ControllerAnnotationSchema,
		ServiceAnnotationSchema,
		RouteAnnotationSchema,
		InjectAnnotationSchema,
		ParamAnnotationSchema,
	}
}

// ValidateBeanName rejects blank names
func ValidateBeanName(v any) error {
	s, _ := v.(string)
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("name must not be empty")
	}
	return nil
}

// ValidateTypeNames checks each entry is Type, pkg.Type or import/path.Type
func ValidateTypeNames(v any) error {
	names, _ := v.([]string)
	if len(names) == 0 {
		return fmt.Errorf("at least one interface is required")
	}
	for _, n := range names {
		dot := strings.LastIndex(n, ".")
		if dot == 0 || dot == len(n)-1 {
			return fmt.Errorf("%q is not a type name", n)
		}
		if !token.IsIdentifier(n[dot+1:]) {
			return fmt.Errorf("%q does not end in a type name", n)
		}
	}
	return nil
}

// ValidateRoutePath rejects empty paths and query strings
func ValidateRoutePath(s string) error {
	if s == "" {
		return fmt.Errorf("path must not be empty")
	}
	if strings.ContainsAny(s, "?#") {
		return fmt.Errorf("path must not contain a query or fragment, got '%s'", s)
	}
	return nil
}

// ValidateIdentifier checks s is a Go identifier
func ValidateIdentifier(s string) error {
	if !token.IsIdentifier(s) {
		return fmt.Errorf("'%s' is not a valid identifier", s)
	}
	return nil
}
