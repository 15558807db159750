package templates

import (
	"go/format"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/minimvc/internal/models"
	"github.com/toyz/minimvc/pkg/mvc"
)

func demoMetadata() *models.PackageMetadata {
	return &models.PackageMetadata{
		PackageName: "web",
		ImportPath:  "example.com/demo/web",
		Components: []models.ComponentMetadata{
			{
				Name:     "TestController",
				Kind:     models.ComponentController,
				BasePath: "/test",
				Fields: []models.FieldMetadata{
					{Name: "Service", FullType: "example.com/demo/service.TestService"},
					{Name: "audit", FullType: "example.com/demo/service.Auditor", Qualifier: "auditor"},
				},
				Methods: []models.MethodMetadata{
					{
						Name: "Query",
						Path: "/query",
						Params: []models.ParamMetadata{
							{Name: "req", FullType: mvc.TypeRequest},
							{Name: "w", FullType: mvc.TypeResponse},
							{Name: "name", FullType: mvc.TypeString, Value: "name"},
						},
					},
					{
						Name:       "Count",
						Path:       "/count",
						Params:     []models.ParamMetadata{{Name: "n", FullType: mvc.TypeInt, Value: "n"}},
						ReturnKind: models.ReturnValueError,
					},
					{Name: "Echo", Path: "/echo", ReturnKind: models.ReturnValue},
					{Name: "Delete", Path: "/delete", ReturnKind: models.ReturnError},
				},
			},
			{
				Name:         "TestServiceImpl",
				Kind:         models.ComponentService,
				ExplicitName: "testService",
				Capabilities: []string{"example.com/demo/service.TestService", "io.Closer"},
			},
		},
	}
}

func render(t *testing.T, meta *models.PackageMetadata) string {
	t.Helper()
	data, err := NewModuleData(meta)
	require.NoError(t, err)
	src, err := RenderModule(data)
	require.NoError(t, err)
	formatted, err := format.Source([]byte(src))
	require.NoError(t, err, src)
	return string(formatted)
}

func TestRenderModule(t *testing.T) {
	out := render(t, demoMetadata())

	assert.Contains(t, out, GeneratedHeader+"\n\npackage web\n")
	assert.Contains(t, out, "import (\n\t\"net/http\"\n\n\t\"github.com/toyz/minimvc/pkg/mvc\"\n)")
	assert.Contains(t, out, "func Components() []mvc.TypeDescriptor {")
	assert.Regexp(t, `Package:\s+"example.com/demo/web"`, out)
	assert.Regexp(t, `Role:\s+mvc.RoleController`, out)
	assert.Contains(t, out, `BasePath: "/test"`)
	assert.Contains(t, out, "return &TestController{}, nil")
	assert.Contains(t, out, "return mvc.Assign(&owner.(*TestController).Service, value)")
	assert.Contains(t, out, `Qualifier: "auditor"`)
	assert.Contains(t, out, "owner.(*TestController).Query(mvc.Arg[*http.Request](args, 0), mvc.Arg[http.ResponseWriter](args, 1), mvc.Arg[string](args, 2))\n")
	assert.Contains(t, out, "return nil, nil")
	assert.Contains(t, out, "return owner.(*TestController).Count(mvc.Arg[int](args, 0))\n")
	assert.Contains(t, out, "return owner.(*TestController).Echo(), nil")
	assert.Contains(t, out, "return nil, owner.(*TestController).Delete()")
	assert.Contains(t, out, `{Name: "name", Type: "string", Value: "name"}`)
	assert.Contains(t, out, `{Name: "req", Type: "*net/http.Request"}`)
	assert.Regexp(t, `Role:\s+mvc.RoleService`, out)
	assert.Contains(t, out, `ExplicitName: "testService"`)
	assert.Contains(t, out, `Capabilities: []string{"example.com/demo/service.TestService", "io.Closer"}`)

	_, err := parser.ParseFile(token.NewFileSet(), "autogen_module.go", out, parser.AllErrors)
	assert.NoError(t, err)
}

func TestRenderModule_ServicesOnly(t *testing.T) {
	out := render(t, &models.PackageMetadata{
		PackageName: "service",
		ImportPath:  "example.com/demo/service",
		Components:  []models.ComponentMetadata{{Name: "Plain", Kind: models.ComponentService}},
	})

	assert.Contains(t, out, "import \"github.com/toyz/minimvc/pkg/mvc\"\n")
	assert.NotContains(t, out, "net/http")
	assert.NotContains(t, out, "Capabilities")
	assert.NotContains(t, out, "Fields")
	assert.NotContains(t, out, "Methods")
}

func TestNewModuleData_UnsupportedParam(t *testing.T) {
	meta := demoMetadata()
	meta.Components[0].Methods[0].Params[2].FullType = "float64"

	_, err := NewModuleData(meta)
	assert.ErrorContains(t, err, "unsupported parameter type float64")
}

func TestRenderModule_Nil(t *testing.T) {
	_, err := RenderModule(nil)
	assert.Error(t, err)
	_, err = NewModuleData(nil)
	assert.Error(t, err)
}

func TestImportManager(t *testing.T) {
	im := NewImportManager()
	assert.Equal(t, "", im.Render())

	im.Add("net/http")
	assert.Equal(t, "import \"net/http\"\n", im.Render())

	im.Add("fmt")
	im.Add("github.com/toyz/minimvc/pkg/mvc")
	im.AddAliased("svc", "example.com/demo/service")
	im.Add("")
	assert.Equal(t, 4, im.Len())
	assert.Equal(t, `import (
	"fmt"
	"net/http"

	"github.com/toyz/minimvc/pkg/mvc"
	svc "example.com/demo/service"
)
`, im.Render())
}
