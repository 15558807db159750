package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyz/minimvc/pkg/mvc"
)

func TestParse(t *testing.T) {
	src := []byte(`
scanPackage = "example.com/demo"
port        = 8080
debug       = true
`)

	props, err := Parse(src, "app.hcl")
	require.NoError(t, err)
	assert.Equal(t, mvc.Properties{
		"scanPackage": "example.com/demo",
		"port":        "8080",
		"debug":       "true",
	}, props)

	root, ok := props.Get(mvc.ScanPackageKey)
	assert.True(t, ok)
	assert.Equal(t, "example.com/demo", root)
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"syntax":    `scanPackage = `,
		"block":     "server {\n  port = 1\n}\n",
		"list":      `hosts = ["a", "b"]`,
		"null":      `scanPackage = null`,
		"variables": `scanPackage = var.root`,
	}

	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src), "bad.hcl")
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimvc.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`scanPackage = "example.com/app"`), 0o644))

	props, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "example.com/app", props["scanPackage"])

	_, err = Load(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}

func TestOverlayEnv(t *testing.T) {
	t.Setenv("MINIMVC_SCANPACKAGE", "example.com/override")
	t.Setenv("MINIMVC_EXTRA", "yes")

	in := mvc.Properties{"scanPackage": "example.com/app", "other": "keep"}
	out := OverlayEnv(in, "extra")

	assert.Equal(t, "example.com/override", out["scanPackage"])
	assert.Equal(t, "keep", out["other"])
	assert.Equal(t, "yes", out["extra"])
	assert.Equal(t, "example.com/app", in["scanPackage"], "input is not modified")
}
