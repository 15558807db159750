// Package config loads container properties from HCL files.
//
// A properties file is a flat list of attributes:
//
//	scanPackage = "example.com/app"
//	debug       = true
//
// Strings, numbers and bools are accepted and stored as strings.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/toyz/minimvc/pkg/mvc"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// EnvPrefix is prepended to upper-cased keys by OverlayEnv
const EnvPrefix = "MINIMVC_"

// Load reads properties from the HCL file at path
func Load(path string) (mvc.Properties, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}
	return decode(file, path)
}

// Parse reads properties from HCL source; filename is used in diagnostics
func Parse(src []byte, filename string) (mvc.Properties, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, diags)
	}
	return decode(file, filename)
}

func decode(file *hcl.File, filename string) (mvc.Properties, error) {
	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid config %s: %w", filename, diags)
	}

	props := make(mvc.Properties, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid value for %q in %s: %w", name, filename, diags)
		}
		s, err := asString(val)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %q in %s (%s): %w", name, filename, attr.Range.String(), err)
		}
		props[name] = s
	}
	return props, nil
}

func asString(val cty.Value) (string, error) {
	if val.IsNull() {
		return "", fmt.Errorf("value is null")
	}
	if !val.Type().IsPrimitiveType() {
		return "", fmt.Errorf("expected string, number or bool, got %s", val.Type().FriendlyName())
	}
	s, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", err
	}
	return s.AsString(), nil
}

// OverlayEnv replaces each key found in props, plus any extra keys, with
// the value of MINIMVC_<KEY> when that variable is set
func OverlayEnv(props mvc.Properties, extra ...string) mvc.Properties {
	out := make(mvc.Properties, len(props))
	for k, v := range props {
		out[k] = v
	}

	keys := make([]string, 0, len(out)+len(extra))
	for k := range out {
		keys = append(keys, k)
	}
	keys = append(keys, extra...)
	sort.Strings(keys)

	for _, k := range keys {
		if v, ok := os.LookupEnv(EnvPrefix + strings.ToUpper(k)); ok {
			out[k] = v
		}
	}
	return out
}
