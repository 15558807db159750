package parser

import (
	"go/ast"
	"go/types"
	"path"
	"regexp"
	"strconv"
	"strings"
)

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// importMap maps the names a file uses for its imports to import paths
type importMap map[string]string

func fileImports(file *ast.File) importMap {
	m := make(importMap)
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		if spec.Name != nil {
			if spec.Name.Name == "_" || spec.Name.Name == "." {
				continue
			}
			m[spec.Name.Name] = p
			continue
		}
		m[defaultImportName(p)] = p
	}
	return m
}

// defaultImportName guesses the package name of an import path
func defaultImportName(importPath string) string {
	base := path.Base(importPath)
	if majorVersion.MatchString(base) {
		if parent := path.Dir(importPath); parent != "." && parent != "/" {
			base = path.Base(parent)
		}
	}
	if i := strings.Index(base, ".v"); i > 0 && majorVersion.MatchString(base[i+1:]) {
		base = base[:i]
	}
	base = strings.TrimPrefix(base, "go-")
	return strings.ReplaceAll(base, "-", "_")
}

// typeResolver turns type expressions into fully-qualified names
type typeResolver struct {
	imports    importMap
	importPath string
}

func (r typeResolver) qualify(name string) string {
	if r.importPath == "" {
		return name
	}
	return r.importPath + "." + name
}

// resolve returns the fully-qualified form of expr, e.g. "*net/http.Request"
func (r typeResolver) resolve(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		if obj := types.Universe.Lookup(t.Name); obj != nil {
			if _, ok := obj.(*types.TypeName); ok {
				return t.Name
			}
		}
		return r.qualify(t.Name)
	case *ast.StarExpr:
		return "*" + r.resolve(t.X)
	case *ast.SelectorExpr:
		if x, ok := t.X.(*ast.Ident); ok {
			if p, found := r.imports[x.Name]; found {
				return p + "." + t.Sel.Name
			}
		}
		return types.ExprString(t)
	case *ast.ParenExpr:
		return r.resolve(t.X)
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + r.resolve(t.Elt)
		}
		return "[" + types.ExprString(t.Len) + "]" + r.resolve(t.Elt)
	case *ast.MapType:
		return "map[" + r.resolve(t.Key) + "]" + r.resolve(t.Value)
	default:
		return types.ExprString(expr)
	}
}

// resolveName qualifies an interface name written as Name, pkg.Name or
// import/path.Name
func (r typeResolver) resolveName(name string) (string, bool) {
	if strings.Contains(name, "/") {
		return name, true
	}
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return r.qualify(name), true
	}
	p, ok := r.imports[name[:dot]]
	if !ok {
		return "", false
	}
	return p + name[dot:], true
}

func typeString(expr ast.Expr) string {
	return types.ExprString(expr)
}
