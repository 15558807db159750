package mvc

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Bean is a named instance held by the registry.
// The set of implementations is closed: *ControllerBean and *ServiceBean.
type Bean interface {
	Name() string
	Role() Role
	Descriptor() *TypeDescriptor
	Instance() any

	bean()
}

type beanBase struct {
	name     string
	desc     *TypeDescriptor
	instance any
}

func (b *beanBase) Name() string                { return b.name }
func (b *beanBase) Descriptor() *TypeDescriptor { return b.desc }
func (b *beanBase) Instance() any               { return b.instance }
func (b *beanBase) bean()                       {}

// ControllerBean is a bean whose methods may be routed
type ControllerBean struct{ beanBase }

// Role returns RoleController
func (*ControllerBean) Role() Role { return RoleController }

// ServiceBean is an injectable bean
type ServiceBean struct{ beanBase }

// Role returns RoleService
func (*ServiceBean) Role() Role { return RoleService }

// Registry maps bean names to instances.
// It is built once and never mutated afterwards.
type Registry struct {
	beans  map[string]Bean
	order  []string
	unique []Bean
	logger *slog.Logger
}

// NewRegistry instantiates every controller and service descriptor and
// binds it under its bean name(s)
func NewRegistry(descs []TypeDescriptor, opts ...Option) (*Registry, error) {
	o := buildOptions(opts)
	r := &Registry{
		beans:  make(map[string]Bean),
		logger: o.logger,
	}

	for i := range descs {
		d := &descs[i]
		switch d.Role {
		case RoleController:
			if err := r.registerController(d); err != nil {
				return nil, err
			}
		case RoleService:
			if err := r.registerService(d); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

func (r *Registry) registerController(d *TypeDescriptor) error {
	name := lowerFirst(d.SimpleName())
	if _, exists := r.beans[name]; exists {
		return newError(DuplicateBeanErrorCode, nil, "bean %q already exists", name).
			With("type", d.ID())
	}
	inst, err := construct(d)
	if err != nil {
		return err
	}
	b := &ControllerBean{beanBase{name: name, desc: d, instance: inst}}
	r.bind(name, b)
	r.unique = append(r.unique, b)
	return nil
}

func (r *Registry) registerService(d *TypeDescriptor) error {
	var names []string
	if explicit := strings.TrimSpace(d.ExplicitName); explicit != "" {
		names = []string{explicit}
	} else if len(d.Capabilities) > 0 {
		seen := make(map[string]bool, len(d.Capabilities))
		for _, c := range d.Capabilities {
			if !seen[c] {
				seen[c] = true
				names = append(names, c)
			}
		}
	} else {
		names = []string{d.ID()}
	}

	for _, n := range names {
		if _, exists := r.beans[n]; exists {
			return newError(DuplicateBeanErrorCode, nil, "bean %q already exists", n).
				With("type", d.ID())
		}
	}

	inst, err := construct(d)
	if err != nil {
		return err
	}

	var first *ServiceBean
	for _, n := range names {
		b := &ServiceBean{beanBase{name: n, desc: d, instance: inst}}
		if first == nil {
			first = b
		}
		r.bind(n, b)
	}
	r.unique = append(r.unique, first)
	return nil
}

func (r *Registry) bind(name string, b Bean) {
	r.beans[name] = b
	r.order = append(r.order, name)
	r.logger.Debug("registered bean", "name", name, "role", b.Role().String(), "type", b.Descriptor().ID())
}

func construct(d *TypeDescriptor) (inst any, err error) {
	if d.New == nil {
		return nil, newError(ConstructionErrorCode, nil, "no constructor for %s", d.ID())
	}
	defer func() {
		if p := recover(); p != nil {
			inst = nil
			err = newError(ConstructionErrorCode, fmt.Errorf("panic: %v", p), "failed to construct %s", d.ID())
		}
	}()
	inst, err = d.New()
	if err != nil {
		return nil, newError(ConstructionErrorCode, err, "failed to construct %s", d.ID())
	}
	if inst == nil {
		return nil, newError(ConstructionErrorCode, nil, "constructor for %s returned nil", d.ID())
	}
	return inst, nil
}

// Lookup returns the bean bound under name
func (r *Registry) Lookup(name string) (Bean, bool) {
	b, ok := r.beans[name]
	return b, ok
}

// Instance returns the instance bound under name
func (r *Registry) Instance(name string) (any, bool) {
	b, ok := r.beans[name]
	if !ok {
		return nil, false
	}
	return b.Instance(), true
}

// Names returns every bound name in sorted order
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	sort.Strings(names)
	return names
}

// Len returns the number of bound names
func (r *Registry) Len() int {
	return len(r.beans)
}

// Beans returns one bean per distinct instance, in registration order
func (r *Registry) Beans() []Bean {
	out := make([]Bean, len(r.unique))
	copy(out, r.unique)
	return out
}

// Controllers returns the controller beans in registration order
func (r *Registry) Controllers() []*ControllerBean {
	var out []*ControllerBean
	for _, b := range r.unique {
		if c, ok := b.(*ControllerBean); ok {
			out = append(out, c)
		}
	}
	return out
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
