package parser

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/minimvc/internal/models"
)

const capabilitySource = `package service

type Greeter interface{ Greet(name string) string }

type Closer interface{ Close() error }

type Empty interface{}

type Generic[T any] interface{ Get() T }

type GreeterImpl struct{}

func (GreeterImpl) Greet(name string) string { return name }

type Both struct{}

func (*Both) Greet(name string) string { return name }
func (*Both) Close() error             { return nil }

type Named struct{}
`

func checkPackage(t *testing.T, path, src string) *types.Package {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "service.go", src, 0)
	require.NoError(t, err)
	pkg, err := (&types.Config{}).Check(path, fset, []*ast.File{f}, nil)
	require.NoError(t, err)
	return pkg
}

func TestAssignCapabilities(t *testing.T) {
	const path = "example.com/demo/service"
	tp := checkPackage(t, path, capabilitySource)

	meta := &models.PackageMetadata{
		ImportPath: path,
		Components: []models.ComponentMetadata{
			{Name: "GreeterImpl", Kind: models.ComponentService},
			{Name: "Both", Kind: models.ComponentService},
			{Name: "Named", Kind: models.ComponentService, ExplicitName: "named"},
		},
	}

	require.NoError(t, assignCapabilities([]*models.PackageMetadata{meta}, []*types.Package{tp}))

	assert.Equal(t, []string{path + ".Greeter"}, meta.Components[0].Capabilities)
	assert.Equal(t, []string{path + ".Closer", path + ".Greeter"}, meta.Components[1].Capabilities)
	assert.Empty(t, meta.Components[2].Capabilities)
}

func TestAssignCapabilities_ExplicitWins(t *testing.T) {
	const path = "example.com/demo/service"
	tp := checkPackage(t, path, capabilitySource)

	meta := &models.PackageMetadata{
		ImportPath: path,
		Components: []models.ComponentMetadata{{
			Name:         "Both",
			Kind:         models.ComponentService,
			Implements:   []string{"Closer"},
			Capabilities: []string{path + ".Closer"},
		}},
	}

	require.NoError(t, assignCapabilities([]*models.PackageMetadata{meta}, []*types.Package{tp}))
	assert.Equal(t, []string{path + ".Closer"}, meta.Components[0].Capabilities)
}

func TestAssignCapabilities_MissingType(t *testing.T) {
	const path = "example.com/demo/service"
	tp := checkPackage(t, path, capabilitySource)

	meta := &models.PackageMetadata{
		ImportPath: path,
		Components: []models.ComponentMetadata{{Name: "Gone", Kind: models.ComponentService, FileName: "gone.go"}},
	}

	err := assignCapabilities([]*models.PackageMetadata{meta}, []*types.Package{tp})
	var gerr *models.GeneratorError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, models.ErrorTypeCapability, gerr.Type)
	assert.Equal(t, "gone.go", gerr.File)
}

func TestAssignCapabilities_PackageNotLoaded(t *testing.T) {
	meta := &models.PackageMetadata{
		ImportPath: "example.com/missing",
		Components: []models.ComponentMetadata{{Name: "S", Kind: models.ComponentService}},
	}
	assert.Error(t, assignCapabilities([]*models.PackageMetadata{meta}, nil))
}

func TestNeedsInference(t *testing.T) {
	assert.False(t, NeedsInference([]*models.PackageMetadata{{
		Components: []models.ComponentMetadata{
			{Name: "C", Kind: models.ComponentController},
			{Name: "S", Kind: models.ComponentService, ExplicitName: "s"},
			{Name: "T", Kind: models.ComponentService, Implements: []string{"X"}},
		},
	}}))
	assert.True(t, NeedsInference([]*models.PackageMetadata{{
		Components: []models.ComponentMetadata{{Name: "S", Kind: models.ComponentService}},
	}}))
}

func TestResolve_NothingToInfer(t *testing.T) {
	// no package loading happens when every service is explicit
	err := NewCapabilityResolver(t.TempDir()).Resolve([]*models.PackageMetadata{{
		ImportPath: "example.com/x",
		Components: []models.ComponentMetadata{{Name: "S", Kind: models.ComponentService, ExplicitName: "s"}},
	}})
	assert.NoError(t, err)
}
