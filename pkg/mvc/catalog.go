package mvc

import (
	"strings"
	"sync"
)

// Source yields the type descriptors found beneath a package root
type Source interface {
	Scan(root string) ([]TypeDescriptor, error)
}

// Catalog is a Source backed by generated Components() slices
type Catalog struct {
	mu    sync.RWMutex
	descs []TypeDescriptor
	ids   map[string]struct{}
}

// NewCatalog creates a catalog seeded with the given descriptor groups.
// Two descriptors sharing an ID yield a ConfigurationError.
func NewCatalog(groups ...[]TypeDescriptor) (*Catalog, error) {
	c := &Catalog{ids: make(map[string]struct{})}
	for _, g := range groups {
		if err := c.Add(g...); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNewCatalog is like NewCatalog but panics on error
func MustNewCatalog(groups ...[]TypeDescriptor) *Catalog {
	c, err := NewCatalog(groups...)
	if err != nil {
		panic(err)
	}
	return c
}

// Add registers descriptors with the catalog. Nothing is added when any
// descriptor duplicates an ID already present or earlier in descs.
func (c *Catalog) Add(descs ...TypeDescriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ids == nil {
		c.ids = make(map[string]struct{})
	}
	seen := make(map[string]struct{}, len(descs))
	for _, d := range descs {
		id := d.ID()
		_, exists := c.ids[id]
		if _, again := seen[id]; exists || again {
			return newError(ConfigurationErrorCode, nil, "descriptor %s already added", id)
		}
		seen[id] = struct{}{}
	}
	for _, d := range descs {
		c.ids[d.ID()] = struct{}{}
		c.descs = append(c.descs, d)
	}
	return nil
}

// Len returns the number of descriptors
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.descs)
}

// Scan returns the descriptors in root or any package beneath it
func (c *Catalog) Scan(root string) ([]TypeDescriptor, error) {
	root = normalizeRoot(root)

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []TypeDescriptor
	for _, d := range c.descs {
		if inRoot(d.Package, root) {
			out = append(out, d)
		}
	}
	return out, nil
}

func normalizeRoot(root string) string {
	root = strings.TrimSpace(root)
	root = strings.TrimSuffix(root, "...")
	return strings.Trim(root, "/")
}

func inRoot(pkg, root string) bool {
	if root == "" {
		return true
	}
	return pkg == root || strings.HasPrefix(pkg, root+"/")
}
