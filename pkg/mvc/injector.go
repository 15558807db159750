package mvc

import (
	"fmt"
	"log/slog"
	"strings"
)

// Injector assigns registry instances to fields marked for injection
type Injector struct {
	logger *slog.Logger
}

// NewInjector creates an injector
func NewInjector(opts ...Option) *Injector {
	o := buildOptions(opts)
	return &Injector{logger: o.logger}
}

// Inject wires every injectable field of every bean in reg.
// A target name with no binding leaves the field untouched.
func (in *Injector) Inject(reg *Registry) error {
	for _, b := range reg.Beans() {
		d := b.Descriptor()
		for i := range d.Fields {
			f := &d.Fields[i]
			if !f.Inject {
				continue
			}
			if err := in.injectField(reg, b, f); err != nil {
				return err
			}
		}
	}
	return nil
}

func (in *Injector) injectField(reg *Registry, b Bean, f *FieldDescriptor) error {
	target := strings.TrimSpace(f.Qualifier)
	if target == "" {
		target = f.Type
	}

	value, ok := reg.Instance(target)
	if !ok {
		in.logger.Warn("no bean for injection point",
			"bean", b.Name(), "field", f.Name, "target", target)
		return nil
	}

	if f.Assign == nil {
		return newError(InjectionErrorCode, nil, "automatic wiring failed for field %s of %s", f.Name, b.Descriptor().ID()).
			With("target", target)
	}
	if err := callAssign(f.Assign, b.Instance(), value); err != nil {
		return newError(InjectionErrorCode, err, "automatic wiring failed for field %s of %s", f.Name, b.Descriptor().ID()).
			With("target", target)
	}

	in.logger.Debug("injected field", "bean", b.Name(), "field", f.Name, "target", target)
	return nil
}

func callAssign(assign func(owner, value any) error, owner, value any) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return assign(owner, value)
}
