package mvc

import (
	"log/slog"
	"regexp"
	"sort"
)

var slashRun = regexp.MustCompile(`/+`)

// NormalizePath collapses every run of slashes into one
func NormalizePath(p string) string {
	return slashRun.ReplaceAllString(p, "/")
}

// BindKind says where a handler argument comes from
type BindKind int

const (
	BindRequest BindKind = iota
	BindResponse
	BindNamed
)

// String returns the binding kind name
func (k BindKind) String() string {
	switch k {
	case BindRequest:
		return "request"
	case BindResponse:
		return "response"
	case BindNamed:
		return "named"
	default:
		return "unknown"
	}
}

// ParamBinding is the plan for filling one handler argument
type ParamBinding struct {
	Kind     BindKind
	Position int
	Name     string // external parameter name for BindNamed
	Type     string // declared type for BindNamed
}

// Route is one entry of the route table
type Route struct {
	Path       string
	Controller *ControllerBean
	Method     *MethodDescriptor
	Plan       []ParamBinding
}

// Handler returns "Type.Method" for logs
func (r *Route) Handler() string {
	return r.Controller.Descriptor().SimpleName() + "." + r.Method.Name
}

// RouteTable maps normalized paths to routes. It is read-only once built.
type RouteTable struct {
	routes map[string]*Route
}

// Lookup returns the route for a normalized path
func (t *RouteTable) Lookup(path string) (*Route, bool) {
	r, ok := t.routes[path]
	return r, ok
}

// Len returns the number of routes
func (t *RouteTable) Len() int {
	return len(t.routes)
}

// Routes returns every route sorted by path
func (t *RouteTable) Routes() []*Route {
	out := make([]*Route, 0, len(t.routes))
	for _, r := range t.routes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// RouteBuilder turns controller metadata into a RouteTable
type RouteBuilder struct {
	logger *slog.Logger
}

// NewRouteBuilder creates a route builder
func NewRouteBuilder(opts ...Option) *RouteBuilder {
	o := buildOptions(opts)
	return &RouteBuilder{logger: o.logger}
}

// Build maps every routed method of every controller in reg
func (rb *RouteBuilder) Build(reg *Registry) (*RouteTable, error) {
	table := &RouteTable{routes: make(map[string]*Route)}

	for _, c := range reg.Controllers() {
		d := c.Descriptor()
		for i := range d.Methods {
			m := &d.Methods[i]
			if !m.Routed {
				continue
			}

			path := NormalizePath("/" + d.BasePath + "/" + m.Path)
			if existing, dup := table.routes[path]; dup {
				return nil, newError(DuplicateRouteErrorCode, nil, "path %s is already mapped", path).
					With("existing", existing.Handler()).
					With("handler", d.SimpleName()+"."+m.Name)
			}

			plan, err := bindingPlan(d, m)
			if err != nil {
				return nil, err
			}

			route := &Route{Path: path, Controller: c, Method: m, Plan: plan}
			table.routes[path] = route
			rb.logger.Info("mapped route", "path", path, "handler", route.Handler())
		}
	}
	return table, nil
}

func bindingPlan(d *TypeDescriptor, m *MethodDescriptor) ([]ParamBinding, error) {
	if m.Invoke == nil {
		return nil, newError(BindingErrorCode, nil, "method %s.%s has no invoker", d.SimpleName(), m.Name)
	}

	plan := make([]ParamBinding, 0, len(m.Params))
	named := make(map[string]bool)
	for i, p := range m.Params {
		switch {
		case p.Type == TypeRequest:
			plan = append(plan, ParamBinding{Kind: BindRequest, Position: i})
		case p.Type == TypeResponse:
			plan = append(plan, ParamBinding{Kind: BindResponse, Position: i})
		case p.Value != "":
			if p.Type != TypeString && p.Type != TypeInt {
				return nil, newError(BindingErrorCode, nil, "parameter %s of %s.%s has unsupported type %s", p.Name, d.SimpleName(), m.Name, p.Type)
			}
			if named[p.Value] {
				return nil, newError(BindingErrorCode, nil, "request parameter %q bound twice in %s.%s", p.Value, d.SimpleName(), m.Name)
			}
			named[p.Value] = true
			plan = append(plan, ParamBinding{Kind: BindNamed, Position: i, Name: p.Value, Type: p.Type})
		default:
			return nil, newError(BindingErrorCode, nil, "parameter %s of %s.%s cannot be bound", p.Name, d.SimpleName(), m.Name).
				With("type", p.Type)
		}
	}
	return plan, nil
}
