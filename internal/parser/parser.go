package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"sort"
	"strings"

	"github.com/toyz/minimvc/internal/annotations"
	"github.com/toyz/minimvc/internal/models"
	"github.com/toyz/minimvc/pkg/mvc"
)

// Parser extracts mvc annotations from Go source
type Parser struct {
	fileSet     *token.FileSet
	annotations *annotations.Parser
}

// NewParser creates a new annotation parser
func NewParser() *Parser {
	return &Parser{
		fileSet:     token.NewFileSet(),
		annotations: annotations.NewParser(nil),
	}
}

// ParseSource parses a single file held in memory
func (p *Parser) ParseSource(filename, source, importPath string) (*models.PackageMetadata, error) {
	file, err := parser.ParseFile(p.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, &models.GeneratorError{
			Type:    models.ErrorTypeAnnotationSyntax,
			File:    filename,
			Message: "failed to parse source",
			Cause:   err,
		}
	}

	metadata := &models.PackageMetadata{
		PackageName: file.Name.Name,
		PackagePath: "./",
		ImportPath:  importPath,
	}
	if err := p.collect(metadata, []namedFile{{name: filename, file: file}}); err != nil {
		return nil, err
	}
	return metadata, nil
}

// ParseDirectory parses the non-test Go files of one package directory
func (p *Parser) ParseDirectory(dir, importPath string) (*models.PackageMetadata, error) {
	filter := func(fi fs.FileInfo) bool {
		name := fi.Name()
		return !strings.HasSuffix(name, "_test.go") && name != models.GeneratedFileName
	}

	pkgs, err := parser.ParseDir(p.fileSet, dir, filter, parser.ParseComments)
	if err != nil {
		return nil, &models.GeneratorError{
			Type:    models.ErrorTypeAnnotationSyntax,
			File:    dir,
			Message: "failed to parse directory",
			Cause:   err,
		}
	}
	if len(pkgs) == 0 {
		return nil, &models.GeneratorError{
			Type:    models.ErrorTypeFileSystem,
			File:    dir,
			Message: "no Go packages found",
		}
	}
	if len(pkgs) > 1 {
		names := make([]string, 0, len(pkgs))
		for n := range pkgs {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, &models.GeneratorError{
			Type:    models.ErrorTypeValidation,
			File:    dir,
			Message: fmt.Sprintf("multiple packages found: %s", strings.Join(names, ", ")),
		}
	}

	var (
		pkgName string
		files   []namedFile
	)
	for name, pkg := range pkgs {
		pkgName = name
		for fileName, f := range pkg.Files {
			files = append(files, namedFile{name: fileName, file: f})
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })

	metadata := &models.PackageMetadata{
		PackageName: pkgName,
		PackagePath: dir,
		ImportPath:  importPath,
	}
	if err := p.collect(metadata, files); err != nil {
		return nil, err
	}
	return metadata, nil
}

type namedFile struct {
	name string
	file *ast.File
}

type pendingMethod struct {
	receiver string
	file     string
	method   models.MethodMetadata
}

func (p *Parser) collect(metadata *models.PackageMetadata, files []namedFile) error {
	var methods []pendingMethod

	for _, nf := range files {
		r := typeResolver{imports: fileImports(nf.file), importPath: metadata.ImportPath}

		for _, decl := range nf.file.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					continue
				}
				for _, spec := range d.Specs {
					ts := spec.(*ast.TypeSpec)
					doc := ts.Doc
					if doc == nil && len(d.Specs) == 1 {
						doc = d.Doc
					}
					comp, err := p.parseType(nf.name, ts, doc, r)
					if err != nil {
						return err
					}
					if comp != nil {
						metadata.Components = append(metadata.Components, *comp)
					}
				}
			case *ast.FuncDecl:
				pm, err := p.parseMethod(nf.name, d, r)
				if err != nil {
					return err
				}
				if pm != nil {
					methods = append(methods, *pm)
				}
			}
		}
	}

	return attachMethods(metadata, methods)
}

func attachMethods(metadata *models.PackageMetadata, methods []pendingMethod) error {
	index := make(map[string]int, len(metadata.Components))
	for i, c := range metadata.Components {
		index[c.Name] = i
	}

	for _, pm := range methods {
		i, ok := index[pm.receiver]
		if !ok || metadata.Components[i].Kind != models.ComponentController {
			return &models.GeneratorError{
				Type:    models.ErrorTypeValidation,
				File:    pm.file,
				Line:    pm.method.Line,
				Message: fmt.Sprintf("route on %s.%s, but %s is not a controller", pm.receiver, pm.method.Name, pm.receiver),
				Suggestions: []string{
					fmt.Sprintf("add //%s::controller to %s", annotations.Prefix, pm.receiver),
				},
			}
		}
		metadata.Components[i].Methods = append(metadata.Components[i].Methods, pm.method)
	}
	return nil
}

// annotationsOf parses every annotation line of a comment group
func (p *Parser) annotationsOf(fileName string, groups ...*ast.CommentGroup) ([]*annotations.ParsedAnnotation, error) {
	var out []*annotations.ParsedAnnotation
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			if !annotations.IsAnnotation(c.Text) {
				continue
			}
			pos := p.fileSet.Position(c.Slash)
			loc := annotations.SourceLocation{File: fileName, Line: pos.Line, Column: pos.Column}
			a, err := p.annotations.ParseAnnotation(c.Text, loc)
			if err != nil {
				return nil, &models.GeneratorError{
					Type:    models.ErrorTypeAnnotationSyntax,
					File:    fileName,
					Line:    pos.Line,
					Message: "invalid annotation",
					Cause:   err,
				}
			}
			out = append(out, a)
		}
	}
	return out, nil
}

func misplaced(a *annotations.ParsedAnnotation, where string) error {
	return &models.GeneratorError{
		Type:    models.ErrorTypeValidation,
		File:    a.Location.File,
		Line:    a.Location.Line,
		Message: fmt.Sprintf("//%s::%s is not allowed on %s", annotations.Prefix, a.Type, where),
	}
}

func duplicate(a *annotations.ParsedAnnotation, target string) error {
	return &models.GeneratorError{
		Type:    models.ErrorTypeValidation,
		File:    a.Location.File,
		Line:    a.Location.Line,
		Message: fmt.Sprintf("duplicate //%s::%s on %s", annotations.Prefix, a.Type, target),
	}
}

func (p *Parser) parseType(fileName string, ts *ast.TypeSpec, doc *ast.CommentGroup, r typeResolver) (*models.ComponentMetadata, error) {
	anns, err := p.annotationsOf(fileName, doc)
	if err != nil {
		return nil, err
	}
	if len(anns) == 0 {
		return nil, nil
	}

	var kind, route *annotations.ParsedAnnotation
	for _, a := range anns {
		switch a.Type {
		case annotations.ControllerAnnotation, annotations.ServiceAnnotation:
			if kind != nil {
				return nil, &models.GeneratorError{
					Type:    models.ErrorTypeValidation,
					File:    fileName,
					Line:    a.Location.Line,
					Message: fmt.Sprintf("%s is marked both %s and %s", ts.Name.Name, kind.Type, a.Type),
				}
			}
			kind = a
		case annotations.RouteAnnotation:
			if route != nil {
				return nil, duplicate(a, ts.Name.Name)
			}
			route = a
		default:
			return nil, misplaced(a, "a type")
		}
	}

	if kind == nil {
		return nil, &models.GeneratorError{
			Type:    models.ErrorTypeValidation,
			File:    fileName,
			Line:    route.Location.Line,
			Message: fmt.Sprintf("route on %s, but %s is not a controller", ts.Name.Name, ts.Name.Name),
			Suggestions: []string{
				fmt.Sprintf("add //%s::controller to %s", annotations.Prefix, ts.Name.Name),
			},
		}
	}

	st, ok := ts.Type.(*ast.StructType)
	if !ok || ts.TypeParams != nil {
		return nil, &models.GeneratorError{
			Type:    models.ErrorTypeValidation,
			File:    fileName,
			Line:    kind.Location.Line,
			Message: fmt.Sprintf("%s must be a non-generic struct type", ts.Name.Name),
		}
	}

	comp := &models.ComponentMetadata{
		Name:     ts.Name.Name,
		FileName: fileName,
		Line:     p.fileSet.Position(ts.Pos()).Line,
	}

	if kind.Type == annotations.ControllerAnnotation {
		comp.Kind = models.ComponentController
		if route != nil {
			comp.BasePath = route.Arg(0)
		}
	} else {
		comp.Kind = models.ComponentService
		if route != nil {
			return nil, &models.GeneratorError{
				Type:    models.ErrorTypeValidation,
				File:    fileName,
				Line:    route.Location.Line,
				Message: fmt.Sprintf("route on %s, but %s is not a controller", ts.Name.Name, ts.Name.Name),
			}
		}
		comp.ExplicitName = strings.TrimSpace(kind.GetString("Name"))
		comp.Implements = kind.GetStringSlice("Implements")
		for _, name := range comp.Implements {
			full, ok := r.resolveName(name)
			if !ok {
				return nil, &models.GeneratorError{
					Type:    models.ErrorTypeValidation,
					File:    fileName,
					Line:    kind.Location.Line,
					Message: fmt.Sprintf("cannot resolve interface %s: its package is not imported", name),
					Suggestions: []string{
						"import the package in this file, or write the full import path",
					},
				}
			}
			comp.Capabilities = append(comp.Capabilities, full)
		}
	}

	fields, err := p.parseFields(fileName, ts.Name.Name, st, r)
	if err != nil {
		return nil, err
	}
	comp.Fields = fields
	return comp, nil
}

func (p *Parser) parseFields(fileName, owner string, st *ast.StructType, r typeResolver) ([]models.FieldMetadata, error) {
	var fields []models.FieldMetadata
	for _, f := range st.Fields.List {
		anns, err := p.annotationsOf(fileName, f.Doc, f.Comment)
		if err != nil {
			return nil, err
		}
		var inject *annotations.ParsedAnnotation
		for _, a := range anns {
			if a.Type != annotations.InjectAnnotation {
				return nil, misplaced(a, "a field")
			}
			if inject != nil {
				return nil, duplicate(a, owner)
			}
			inject = a
		}
		if inject == nil {
			continue
		}
		if len(f.Names) == 0 {
			return nil, &models.GeneratorError{
				Type:    models.ErrorTypeValidation,
				File:    fileName,
				Line:    inject.Location.Line,
				Message: fmt.Sprintf("cannot inject into embedded field of %s", owner),
				Suggestions: []string{
					"give the field a name",
				},
			}
		}

		full := strings.TrimPrefix(r.resolve(f.Type), "*")
		for _, n := range f.Names {
			fields = append(fields, models.FieldMetadata{
				Name:      n.Name,
				TypeExpr:  typeString(f.Type),
				FullType:  full,
				Qualifier: strings.TrimSpace(inject.GetString("Name")),
				Line:      p.fileSet.Position(n.Pos()).Line,
			})
		}
	}
	return fields, nil
}

func (p *Parser) parseMethod(fileName string, fd *ast.FuncDecl, r typeResolver) (*pendingMethod, error) {
	anns, err := p.annotationsOf(fileName, fd.Doc)
	if err != nil {
		return nil, err
	}
	if len(anns) == 0 {
		return nil, nil
	}

	var route *annotations.ParsedAnnotation
	var params []*annotations.ParsedAnnotation
	for _, a := range anns {
		switch a.Type {
		case annotations.RouteAnnotation:
			if route != nil {
				return nil, duplicate(a, fd.Name.Name)
			}
			route = a
		case annotations.ParamAnnotation:
			params = append(params, a)
		default:
			return nil, misplaced(a, "a method")
		}
	}

	line := p.fileSet.Position(fd.Pos()).Line
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return nil, &models.GeneratorError{
			Type:    models.ErrorTypeValidation,
			File:    fileName,
			Line:    line,
			Message: fmt.Sprintf("%s is a function; only controller methods can be routed", fd.Name.Name),
		}
	}
	if route == nil {
		return nil, &models.GeneratorError{
			Type:    models.ErrorTypeValidation,
			File:    fileName,
			Line:    params[0].Location.Line,
			Message: fmt.Sprintf("//%s::param on %s, which has no route", annotations.Prefix, fd.Name.Name),
		}
	}

	receiver := receiverName(fd.Recv.List[0].Type)
	method := models.MethodMetadata{
		Name: fd.Name.Name,
		Path: route.Arg(0),
		Line: line,
	}

	method.Params, err = methodParams(fileName, line, fd, params, r)
	if err != nil {
		return nil, err
	}
	method.ReturnKind, err = returnKind(fileName, line, fd)
	if err != nil {
		return nil, err
	}

	return &pendingMethod{receiver: receiver, file: fileName, method: method}, nil
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	default:
		return typeString(expr)
	}
}

func methodParams(fileName string, line int, fd *ast.FuncDecl, anns []*annotations.ParsedAnnotation, r typeResolver) ([]models.ParamMetadata, error) {
	external := make(map[string]string, len(anns))
	for _, a := range anns {
		goName := a.Arg(0)
		if _, dup := external[goName]; dup {
			return nil, &models.GeneratorError{
				Type:    models.ErrorTypeValidation,
				File:    fileName,
				Line:    a.Location.Line,
				Message: fmt.Sprintf("parameter %s of %s is annotated twice", goName, fd.Name.Name),
			}
		}
		external[goName] = strings.TrimSpace(a.GetString("Name", goName))
	}

	var params []models.ParamMetadata
	used := make(map[string]bool)
	for _, field := range fd.Type.Params.List {
		if _, variadic := field.Type.(*ast.Ellipsis); variadic {
			return nil, &models.GeneratorError{
				Type:    models.ErrorTypeValidation,
				File:    fileName,
				Line:    line,
				Message: fmt.Sprintf("handler %s cannot be variadic", fd.Name.Name),
			}
		}

		names := field.Names
		if len(names) == 0 {
			names = []*ast.Ident{{Name: ""}}
		}
		for _, n := range names {
			pm := models.ParamMetadata{
				Name:     n.Name,
				TypeExpr: typeString(field.Type),
				FullType: r.resolve(field.Type),
			}
			if pm.Name == "" || pm.Name == "_" {
				pm.Name = fmt.Sprintf("arg%d", len(params))
			}
			if ext, ok := external[n.Name]; ok && n.Name != "" && n.Name != "_" {
				pm.Value = ext
				used[n.Name] = true
			}

			if err := checkParam(fileName, line, fd.Name.Name, pm); err != nil {
				return nil, err
			}
			params = append(params, pm)
		}
	}

	for _, a := range anns {
		if !used[a.Arg(0)] {
			return nil, &models.GeneratorError{
				Type:    models.ErrorTypeValidation,
				File:    fileName,
				Line:    a.Location.Line,
				Message: fmt.Sprintf("%s has no parameter named %s", fd.Name.Name, a.Arg(0)),
			}
		}
	}
	return params, nil
}

func checkParam(fileName string, line int, method string, pm models.ParamMetadata) error {
	switch pm.FullType {
	case mvc.TypeRequest, mvc.TypeResponse:
		if pm.Value != "" {
			return &models.GeneratorError{
				Type:    models.ErrorTypeValidation,
				File:    fileName,
				Line:    line,
				Message: fmt.Sprintf("parameter %s of %s is bound automatically and cannot be a request parameter", pm.Name, method),
			}
		}
		return nil
	case mvc.TypeString, mvc.TypeInt:
		if pm.Value == "" {
			return &models.GeneratorError{
				Type:    models.ErrorTypeValidation,
				File:    fileName,
				Line:    line,
				Message: fmt.Sprintf("parameter %s of %s is not bound", pm.Name, method),
				Suggestions: []string{
					fmt.Sprintf("add //%s::param %s above the method", annotations.Prefix, pm.Name),
				},
			}
		}
		return nil
	default:
		return &models.GeneratorError{
			Type:    models.ErrorTypeValidation,
			File:    fileName,
			Line:    line,
			Message: fmt.Sprintf("parameter %s of %s has unsupported type %s", pm.Name, method, pm.TypeExpr),
			Suggestions: []string{
				"use string, int, *http.Request or http.ResponseWriter",
			},
		}
	}
}

func returnKind(fileName string, line int, fd *ast.FuncDecl) (models.ReturnKind, error) {
	var results []ast.Expr
	if fd.Type.Results != nil {
		for _, f := range fd.Type.Results.List {
			n := len(f.Names)
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				results = append(results, f.Type)
			}
		}
	}

	switch {
	case len(results) == 0:
		return models.ReturnNone, nil
	case len(results) == 1 && isError(results[0]):
		return models.ReturnError, nil
	case len(results) == 1:
		return models.ReturnValue, nil
	case len(results) == 2 && isError(results[1]) && !isError(results[0]):
		return models.ReturnValueError, nil
	default:
		return 0, &models.GeneratorError{
			Type:    models.ErrorTypeValidation,
			File:    fileName,
			Line:    line,
			Message: fmt.Sprintf("handler %s must return nothing, T, error or (T, error)", fd.Name.Name),
		}
	}
}

func isError(expr ast.Expr) bool {
	id, ok := expr.(*ast.Ident)
	return ok && id.Name == "error"
}
