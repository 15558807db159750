package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/minimvc/internal/models"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

const serviceSource = `package service

type TestService interface{ Get(name string) string }

//mvc::service -Implements=TestService
type TestServiceImpl struct{}

func (TestServiceImpl) Get(name string) string { return "my name is " + name }
`

const controllerSource = `package web

import (
	"net/http"

	"example.com/demo/service"
)

//mvc::controller
//mvc::route /test
type TestController struct {
	//mvc::inject
	Service service.TestService
}

//mvc::route /query
//mvc::param name
func (c *TestController) Query(w http.ResponseWriter, name string) {
	w.Write([]byte(c.Service.Get(name)))
}
`

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func demoModule(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	write(t, filepath.Join(root, "go.mod"), "module example.com/demo\n\ngo 1.25\n")
	write(t, filepath.Join(root, "service", "service.go"), serviceSource)
	write(t, filepath.Join(root, "web", "web.go"), controllerSource)
	write(t, filepath.Join(root, "plain", "plain.go"), "package plain\n")
	return root
}

func TestGenerator_Run(t *testing.T) {
	root := demoModule(t)
	stale := filepath.Join(root, "plain", models.GeneratedFileName)
	write(t, stale, "package plain\n")

	g := NewGenerator(false, nil)
	err := g.Run(Config{Directories: []string{root + "/..."}, NoInfer: true})
	require.NoError(t, err)

	summary := g.Summary()
	assert.Equal(t, 3, summary.PackagesProcessed)
	assert.Equal(t, 1, summary.ControllersFound)
	assert.Equal(t, 1, summary.ServicesFound)
	assert.Equal(t, 1, summary.RoutesFound)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "service", models.GeneratedFileName),
		filepath.Join(root, "web", models.GeneratedFileName),
	}, summary.GeneratedFiles)
	assert.Equal(t, []string{stale}, summary.RemovedFiles)
	assert.NoFileExists(t, stale)

	web, err := os.ReadFile(filepath.Join(root, "web", models.GeneratedFileName))
	require.NoError(t, err)
	assert.Contains(t, string(web), `"example.com/demo/web"`)
	assert.Contains(t, string(web), `"example.com/demo/service.TestService"`)

	svc, err := os.ReadFile(filepath.Join(root, "service", models.GeneratedFileName))
	require.NoError(t, err)
	assert.Contains(t, string(svc), `Capabilities: []string{"example.com/demo/service.TestService"}`)
}

func TestGenerator_CustomModule(t *testing.T) {
	root := demoModule(t)

	g := NewGenerator(false, nil)
	require.NoError(t, g.Run(Config{
		Directories: []string{filepath.Join(root, "web")},
		ModuleName:  "example.com/renamed",
		NoInfer:     true,
	}))

	web, err := os.ReadFile(filepath.Join(root, "web", models.GeneratedFileName))
	require.NoError(t, err)
	assert.Contains(t, string(web), `"example.com/renamed/web"`)
	assert.Len(t, g.Summary().GeneratedFiles, 1)
}

func TestGenerator_ParseError(t *testing.T) {
	root := demoModule(t)
	write(t, filepath.Join(root, "bad", "bad.go"), "package bad\n\n//mvc::route /x\ntype Bad struct{}\n")

	err := NewGenerator(false, nil).Run(Config{Directories: []string{root + "/..."}, NoInfer: true})
	var gerr *models.GeneratorError
	require.ErrorAs(t, err, &gerr)
	assert.Contains(t, gerr.File, "bad.go")
}

func TestGenerator_NoDirectories(t *testing.T) {
	assert.Error(t, NewGenerator(false, nil).Run(Config{}))
}

func TestDirectoryScanner(t *testing.T) {
	root := demoModule(t)
	s := NewDirectoryScanner()

	dirs, err := s.ScanDirectories([]string{root + "/...", filepath.Join(root, "web")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "plain"),
		filepath.Join(root, "service"),
		filepath.Join(root, "web"),
	}, dirs)

	dirs, err = s.ScanDirectories([]string{root})
	require.NoError(t, err)
	assert.Empty(t, dirs)
}

func TestSplitPattern(t *testing.T) {
	tests := []struct {
		in        string
		root      string
		recursive bool
	}{
		{"./...", ".", true},
		{"...", ".", true},
		{"/...", ".", true},
		{"./internal/...", "./internal", true},
		{"./web", "./web", false},
	}
	for _, tt := range tests {
		root, rec := splitPattern(tt.in)
		assert.Equal(t, tt.root, root, tt.in)
		assert.Equal(t, tt.recursive, rec, tt.in)
	}
}

func TestModuleResolver(t *testing.T) {
	root := demoModule(t)

	r, err := NewModuleResolver(filepath.Join(root, "web"), "")
	require.NoError(t, err)
	assert.Equal(t, "example.com/demo", r.ModuleName())
	assert.Equal(t, root, r.ModuleDir())

	p, err := r.BuildPackagePath(filepath.Join(root, "service"))
	require.NoError(t, err)
	assert.Equal(t, "example.com/demo/service", p)

	r, err = NewModuleResolver(root, "example.com/other")
	require.NoError(t, err)
	assert.Equal(t, "example.com/other", r.ModuleName())

	_, err = NewModuleResolver(t.TempDir(), "")
	assert.ErrorContains(t, err, "-module")
}

func TestCleaner(t *testing.T) {
	root := demoModule(t)
	a := filepath.Join(root, "web", models.GeneratedFileName)
	b := filepath.Join(root, "orphan", models.GeneratedFileName)
	write(t, a, "package web\n")
	write(t, b, "package orphan\n")

	removed, err := NewCleaner().CleanGeneratedFiles([]string{root + "/..."})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, removed)
	assert.NoFileExists(t, a)
	assert.NoFileExists(t, b)

	removed, err = NewCleaner().CleanGeneratedFiles([]string{filepath.Join(root, "web")})
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestDiagnosticReporter(t *testing.T) {
	var out bytes.Buffer
	r := NewDiagnosticReporter(true)
	r.SetOutput(&out)

	r.ReportError((&models.GeneratorError{
		Type:        models.ErrorTypeValidation,
		File:        "web.go",
		Line:        12,
		Message:     "unbound parameter",
		Cause:       errors.New("name has no //mvc::param"),
		Suggestions: []string{"add //mvc::param name"},
	}).WithContext("method", "Query"))

	s := out.String()
	assert.Contains(t, s, "Code Generation Failed")
	assert.Contains(t, s, "Type: validation")
	assert.Contains(t, s, "Location: web.go:12")
	assert.Contains(t, s, "Underlying cause: name has no //mvc::param")
	assert.Contains(t, s, "method: Query")
	assert.Contains(t, s, "- add //mvc::param name")

	out.Reset()
	r.ReportError(errors.New("plain failure"))
	assert.Contains(t, out.String(), "Message: plain failure")

	out.Reset()
	r.ReportWarning("careful")
	assert.Equal(t, "! careful\n", out.String())

	out.Reset()
	r.ReportError(nil)
	assert.Empty(t, out.String())
}
