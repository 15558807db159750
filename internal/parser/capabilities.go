package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/toyz/minimvc/internal/models"
)

// CapabilityResolver infers the interfaces a service satisfies by
// type-checking the scanned packages
type CapabilityResolver struct {
	dir string
}

// NewCapabilityResolver creates a resolver that loads packages from dir
func NewCapabilityResolver(dir string) *CapabilityResolver {
	return &CapabilityResolver{dir: dir}
}

// NeedsInference reports whether any service lacks both a name and
// explicit capabilities
func NeedsInference(pkgs []*models.PackageMetadata) bool {
	for _, p := range pkgs {
		for _, c := range p.Components {
			if needsInference(c) {
				return true
			}
		}
	}
	return false
}

func needsInference(c models.ComponentMetadata) bool {
	return c.Kind == models.ComponentService && c.ExplicitName == "" && len(c.Implements) == 0
}

// Resolve fills Capabilities for every service that needs inference
func (r *CapabilityResolver) Resolve(pkgs []*models.PackageMetadata) error {
	if !NeedsInference(pkgs) {
		return nil
	}

	var patterns []string
	for _, p := range pkgs {
		if p.ImportPath != "" {
			patterns = append(patterns, p.ImportPath)
		}
	}

	cfg := &packages.Config{
		Mode:      packages.NeedName | packages.NeedTypes | packages.NeedImports,
		Dir:       r.dir,
		ParseFile: skipGenerated,
	}
	loaded, err := packages.Load(cfg, patterns...)
	if err != nil {
		return &models.GeneratorError{
			Type:    models.ErrorTypeCapability,
			File:    r.dir,
			Message: "failed to load packages for capability inference",
			Cause:   err,
		}
	}

	var scanned []*types.Package
	for _, lp := range loaded {
		if len(lp.Errors) > 0 {
			return &models.GeneratorError{
				Type:    models.ErrorTypeCapability,
				File:    lp.PkgPath,
				Message: "package does not type-check",
				Cause:   lp.Errors[0],
				Suggestions: []string{
					"fix the compile error, or declare capabilities with -Implements",
				},
			}
		}
		if lp.Types != nil {
			scanned = append(scanned, lp.Types)
		}
	}

	return assignCapabilities(pkgs, scanned)
}

// skipGenerated drops the body of generated files so stale output cannot
// break type checking
func skipGenerated(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
	mode := parser.AllErrors | parser.ParseComments
	if filepath.Base(filename) == models.GeneratedFileName {
		mode = parser.PackageClauseOnly
	}
	return parser.ParseFile(fset, filename, src, mode)
}

type candidate struct {
	name  string
	iface *types.Interface
}

func assignCapabilities(pkgs []*models.PackageMetadata, scanned []*types.Package) error {
	universe := make(map[string]*types.Package)
	var walk func(p *types.Package)
	walk = func(p *types.Package) {
		if _, seen := universe[p.Path()]; seen {
			return
		}
		universe[p.Path()] = p
		for _, imp := range p.Imports() {
			walk(imp)
		}
	}
	for _, p := range scanned {
		walk(p)
	}

	cands := make(map[string]*types.Interface)
	for _, p := range scanned {
		scope := p.Scope()
		for _, name := range scope.Names() {
			if iface := interfaceOf(scope.Lookup(name)); iface != nil {
				cands[p.Path()+"."+name] = iface
			}
		}
	}
	for _, meta := range pkgs {
		for _, c := range meta.Components {
			for _, f := range c.Fields {
				if _, ok := cands[f.FullType]; ok {
					continue
				}
				if iface := lookupInterface(universe, f.FullType); iface != nil {
					cands[f.FullType] = iface
				}
			}
		}
	}

	sorted := make([]candidate, 0, len(cands))
	for n, i := range cands {
		sorted = append(sorted, candidate{name: n, iface: i})
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].name < sorted[j].name })

	for _, meta := range pkgs {
		tp := universe[meta.ImportPath]
		for i := range meta.Components {
			c := &meta.Components[i]
			if !needsInference(*c) {
				continue
			}
			if tp == nil {
				return &models.GeneratorError{
					Type:    models.ErrorTypeCapability,
					File:    c.FileName,
					Line:    c.Line,
					Message: fmt.Sprintf("package %s was not loaded", meta.ImportPath),
				}
			}
			obj, ok := tp.Scope().Lookup(c.Name).(*types.TypeName)
			if !ok {
				return &models.GeneratorError{
					Type:    models.ErrorTypeCapability,
					File:    c.FileName,
					Line:    c.Line,
					Message: fmt.Sprintf("type %s not found in %s", c.Name, meta.ImportPath),
				}
			}

			ptr := types.NewPointer(obj.Type())
			c.Capabilities = nil
			for _, cand := range sorted {
				if types.Implements(ptr, cand.iface) {
					c.Capabilities = append(c.Capabilities, cand.name)
				}
			}
		}
	}
	return nil
}

func interfaceOf(obj types.Object) *types.Interface {
	tn, ok := obj.(*types.TypeName)
	if !ok || tn.IsAlias() {
		return nil
	}
	named, ok := tn.Type().(*types.Named)
	if !ok || named.TypeParams().Len() > 0 {
		return nil
	}
	iface, ok := named.Underlying().(*types.Interface)
	if !ok || iface.NumMethods() == 0 || !iface.IsMethodSet() {
		return nil
	}
	return iface
}

func lookupInterface(universe map[string]*types.Package, fullType string) *types.Interface {
	dot := strings.LastIndex(fullType, ".")
	if dot <= 0 {
		return nil
	}
	p, ok := universe[fullType[:dot]]
	if !ok {
		return nil
	}
	return interfaceOf(p.Scope().Lookup(fullType[dot+1:]))
}
