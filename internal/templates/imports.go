package templates

import (
	"fmt"
	"sort"
	"strings"
)

// MVCImportPath is the runtime package generated files depend on
const MVCImportPath = "github.com/toyz/minimvc/pkg/mvc"

// ImportManager collects and renders the import block of a generated file
type ImportManager struct {
	standard map[string]bool
	aliased  map[string]string // alias -> path
	external map[string]bool
}

// NewImportManager creates an empty import manager
func NewImportManager() *ImportManager {
	return &ImportManager{
		standard: make(map[string]bool),
		aliased:  make(map[string]string),
		external: make(map[string]bool),
	}
}

// Add records an unaliased import, grouping standard library paths first
func (im *ImportManager) Add(importPath string) {
	if importPath == "" {
		return
	}
	if isStandard(importPath) {
		im.standard[importPath] = true
		return
	}
	im.external[importPath] = true
}

// AddAliased records an import under an explicit name
func (im *ImportManager) AddAliased(alias, importPath string) {
	if alias != "" && importPath != "" {
		im.aliased[alias] = importPath
	}
}

// Len returns the number of recorded imports
func (im *ImportManager) Len() int {
	return len(im.standard) + len(im.aliased) + len(im.external)
}

// Render returns the import declaration, or "" when nothing was added
func (im *ImportManager) Render() string {
	var groups [][]string

	if std := sortedKeys(im.standard); len(std) > 0 {
		groups = append(groups, quoteAll(std))
	}

	var rest []string
	for _, p := range sortedKeys(im.external) {
		rest = append(rest, fmt.Sprintf("%q", p))
	}
	aliases := make([]string, 0, len(im.aliased))
	for a := range im.aliased {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	for _, a := range aliases {
		rest = append(rest, fmt.Sprintf("%s %q", a, im.aliased[a]))
	}
	if len(rest) > 0 {
		groups = append(groups, rest)
	}

	switch {
	case len(groups) == 0:
		return ""
	case len(groups) == 1 && len(groups[0]) == 1:
		return "import " + groups[0][0] + "\n"
	}

	var b strings.Builder
	b.WriteString("import (\n")
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, line := range g {
			b.WriteString("\t" + line + "\n")
		}
	}
	b.WriteString(")\n")
	return b.String()
}

// isStandard treats paths without a dot in the first element as stdlib
func isStandard(importPath string) bool {
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
