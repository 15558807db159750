package cli

import (
	"fmt"
	"os"

	"github.com/toyz/minimvc/internal/utils"
)

// ModuleResolver maps package directories to import paths
type ModuleResolver struct {
	module *utils.GoModule
}

// NewModuleResolver locates the module enclosing startDir. A non-empty
// customModule replaces the path declared in go.mod; without a go.mod it
// is rooted at the working directory.
func NewModuleResolver(startDir, customModule string) (*ModuleResolver, error) {
	mod, err := utils.LoadGoModule(startDir)
	if err != nil {
		if customModule == "" {
			return nil, fmt.Errorf("failed to determine module name: %w (consider using -module)", err)
		}
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", wdErr)
		}
		return &ModuleResolver{module: &utils.GoModule{Path: customModule, Dir: wd}}, nil
	}
	if customModule != "" {
		mod.Path = customModule
	}
	return &ModuleResolver{module: mod}, nil
}

// ModuleName returns the resolved module path
func (r *ModuleResolver) ModuleName() string {
	return r.module.Path
}

// ModuleDir returns the directory the module is rooted at
func (r *ModuleResolver) ModuleDir() string {
	return r.module.Dir
}

// BuildPackagePath returns the import path of packageDir
func (r *ModuleResolver) BuildPackagePath(packageDir string) (string, error) {
	return r.module.ImportPath(packageDir)
}
