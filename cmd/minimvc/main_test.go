package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Help(t *testing.T) {
	code, _, stderr := runCLI("-help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "Usage:")
	assert.Contains(t, stderr, "-module")
	assert.Contains(t, stderr, "-no-infer")
}

func TestRun_NoArguments(t *testing.T) {
	code, _, stderr := runCLI()
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "At least one directory path is required")
}

func TestRun_BadFlag(t *testing.T) {
	code, _, _ := runCLI("-nope")
	assert.Equal(t, 2, code)
}

func TestRun_GenerateAndClean(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/app\n\ngo 1.25\n"), 0o644))
	web := filepath.Join(root, "web")
	require.NoError(t, os.MkdirAll(web, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(web, "web.go"), []byte(`package web

//mvc::controller
//mvc::route /hello
type Hello struct{}

//mvc::route /
func (h *Hello) Index() string { return "hi" }
`), 0o644))

	code, stdout, stderr := runCLI("-no-infer", root+"/...")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Generation Complete!")
	assert.Contains(t, stdout, "Routes found: 1")

	generated := filepath.Join(web, "autogen_module.go")
	assert.FileExists(t, generated)

	code, stdout, _ = runCLI("-clean", root+"/...")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Removed 1 generated files")
	assert.NoFileExists(t, generated)
}

func TestRun_ReportsErrors(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/app\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.go"), []byte("package app\n\n//mvc::inject\ntype Bad struct{}\n"), 0o644))

	code, _, stderr := runCLI("-quiet", "-no-infer", root)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Code Generation Failed")
	assert.Contains(t, stderr, "bad.go")
}
