package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// GoModule describes the module enclosing a directory
type GoModule struct {
	Path string // module path from the module directive
	Dir  string // directory holding go.mod
}

// FindGoModFile walks up from startDir to the nearest go.mod
func FindGoModFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, "go.mod")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod file not found above %s", startDir)
		}
		dir = parent
	}
}

// ParseModuleName extracts the module path from a go.mod file
func ParseModuleName(goModPath string) (string, error) {
	content, err := os.ReadFile(goModPath)
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod file: %w", err)
	}
	mf, err := modfile.ParseLax(goModPath, content, nil)
	if err != nil {
		return "", fmt.Errorf("failed to parse go.mod file: %w", err)
	}
	if mf.Module == nil || mf.Module.Mod.Path == "" {
		return "", fmt.Errorf("no module declaration found in %s", goModPath)
	}
	return mf.Module.Mod.Path, nil
}

// LoadGoModule finds and parses the module enclosing startDir
func LoadGoModule(startDir string) (*GoModule, error) {
	goMod, err := FindGoModFile(startDir)
	if err != nil {
		return nil, err
	}
	path, err := ParseModuleName(goMod)
	if err != nil {
		return nil, err
	}
	return &GoModule{Path: path, Dir: filepath.Dir(goMod)}, nil
}

// ImportPath returns the import path of dir inside the module
func (m *GoModule) ImportPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(m.Dir, abs)
	if err != nil {
		return "", fmt.Errorf("failed to calculate relative path: %w", err)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || (len(rel) > 3 && rel[:3] == "../") {
		return "", fmt.Errorf("%s is outside module %s", dir, m.Path)
	}
	if rel == "." {
		return m.Path, nil
	}
	return m.Path + "/" + rel, nil
}
