package models

// PackageMetadata represents all annotated components found in a package
type PackageMetadata struct {
	PackageName string              // name of the Go package
	PackagePath string              // file system path to the package
	ImportPath  string              // import path of the package
	Components  []ComponentMetadata // controllers and services in source order
}

// Controllers returns the controller components
func (p *PackageMetadata) Controllers() []ComponentMetadata {
	return p.filter(ComponentController)
}

// Services returns the service components
func (p *PackageMetadata) Services() []ComponentMetadata {
	return p.filter(ComponentService)
}

func (p *PackageMetadata) filter(kind ComponentKind) []ComponentMetadata {
	var out []ComponentMetadata
	for _, c := range p.Components {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// HasComponents reports whether anything needs generating
func (p *PackageMetadata) HasComponents() bool {
	return len(p.Components) > 0
}

// ComponentMetadata represents one annotated struct
type ComponentMetadata struct {
	Name     string        // struct name
	Kind     ComponentKind // controller or service
	FileName string        // file the struct is declared in
	Line     int           // line of the struct declaration

	ExplicitName string   // service bean name from -Name
	Implements   []string // -Implements entries as written
	Capabilities []string // fully-qualified interface names

	BasePath string // controller route prefix

	Fields  []FieldMetadata  // fields marked for injection
	Methods []MethodMetadata // routed methods
}

// FieldMetadata represents an injection point
type FieldMetadata struct {
	Name      string // field name
	TypeExpr  string // field type as written in source
	FullType  string // fully-qualified type, pointer stripped
	Qualifier string // bean name from -Name
	Line      int
}

// MethodMetadata represents a routed controller method
type MethodMetadata struct {
	Name       string          // method name
	Path       string          // route path as written
	Params     []ParamMetadata // parameters in signature order
	ReturnKind ReturnKind      // shape of the result list
	Line       int
}

// Returns reports whether the method produces a value to write
func (m MethodMetadata) Returns() bool {
	return m.ReturnKind == ReturnValue || m.ReturnKind == ReturnValueError
}

// ParamMetadata represents one handler parameter
type ParamMetadata struct {
	Name     string // parameter name, generated when blank
	TypeExpr string // type as written in source
	FullType string // fully-qualified type
	Value    string // request parameter name from //mvc::param
}
