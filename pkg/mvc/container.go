package mvc

import (
	"log/slog"
	"net/http"
	"strings"
)

// ScanPackageKey is the configuration key naming the package root to scan
const ScanPackageKey = "scanPackage"

// Properties is the resolved key/value configuration of a container
type Properties map[string]string

// Get returns the trimmed value for key; blank values count as absent
func (p Properties) Get(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Container holds everything produced by bootstrap.
// Nothing in it changes after Bootstrap returns.
type Container struct {
	registry   *Registry
	routes     *RouteTable
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// Bootstrap scans src beneath the configured package root, instantiates
// and wires the components, and builds the route table
func Bootstrap(props Properties, src Source, opts ...Option) (*Container, error) {
	o := buildOptions(opts)
	log := o.logger

	root, ok := props.Get(ScanPackageKey)
	if !ok {
		return nil, newError(ConfigurationErrorCode, nil, "missing required property %q", ScanPackageKey)
	}
	if src == nil {
		return nil, newError(ConfigurationErrorCode, nil, "no type descriptor source")
	}

	descs, err := src.Scan(root)
	if err != nil {
		return nil, newError(ConfigurationErrorCode, err, "scan of %s failed", root)
	}
	log.Debug("scanned components", "root", root, "count", len(descs))

	reg, err := NewRegistry(descs, opts...)
	if err != nil {
		return nil, err
	}

	if err := NewInjector(opts...).Inject(reg); err != nil {
		return nil, err
	}

	table, err := NewRouteBuilder(opts...).Build(reg)
	if err != nil {
		return nil, err
	}

	c := &Container{
		registry:   reg,
		routes:     table,
		dispatcher: NewDispatcher(table, opts...),
		logger:     log,
	}
	log.Info("container initialized", "root", root, "beans", len(reg.Beans()), "routes", table.Len())
	return c, nil
}

// Registry returns the component registry
func (c *Container) Registry() *Registry {
	return c.registry
}

// Routes returns the route table
func (c *Container) Routes() *RouteTable {
	return c.routes
}

// Dispatcher returns the request dispatcher
func (c *Container) Dispatcher() *Dispatcher {
	return c.dispatcher
}

// ServeHTTP implements http.Handler
func (c *Container) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.dispatcher.ServeHTTP(w, r)
}
