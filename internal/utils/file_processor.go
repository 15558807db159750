package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/minimvc/internal/models"
)

// DirectoryFilter reports whether a directory should be walked
type DirectoryFilter func(path string, entry os.DirEntry) bool

// FileProcessor finds package directories and manages generated files
type FileProcessor struct {
	dirFilter DirectoryFilter
}

// NewFileProcessor creates a file processor with the default directory filter
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{dirFilter: DefaultDirectoryFilter()}
}

// DefaultDirectoryFilter skips hidden, vendored and build directories
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
		"build":        true,
		"dist":         true,
	}

	return func(path string, entry os.DirEntry) bool {
		name := entry.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		if strings.HasPrefix(name, "_") {
			return false
		}
		return !skipDirs[name]
	}
}

// IsSourceFile reports whether name is a non-test, non-generated Go file
func IsSourceFile(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		name != models.GeneratedFileName
}

// HasGoFiles reports whether dir directly contains source files
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if !e.IsDir() && IsSourceFile(e.Name()) {
			return true, nil
		}
	}
	return false, nil
}

// PackageDirs returns the directories under root that hold Go sources,
// descending into subdirectories when recursive is set
func (fp *FileProcessor) PackageDirs(root string, recursive bool) ([]string, error) {
	return fp.collectDirs(root, recursive, fp.HasGoFiles)
}

// GeneratedDirs returns the directories under root that hold a generated file
func (fp *FileProcessor) GeneratedDirs(root string, recursive bool) ([]string, error) {
	return fp.collectDirs(root, recursive, func(dir string) (bool, error) {
		info, err := os.Stat(filepath.Join(dir, models.GeneratedFileName))
		if err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, err
		}
		return !info.IsDir(), nil
	})
}

func (fp *FileProcessor) collectDirs(root string, recursive bool, match func(string) (bool, error)) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	if !recursive {
		if _, err := os.ReadDir(abs); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", root, err)
		}
		ok, err := match(abs)
		if err != nil || !ok {
			return nil, err
		}
		return []string{abs}, nil
	}

	var dirs []string
	err = filepath.WalkDir(abs, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != abs && !fp.dirFilter(path, d) {
			return filepath.SkipDir
		}
		ok, err := match(path)
		if err != nil {
			return err
		}
		if ok {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	sort.Strings(dirs)
	return dirs, nil
}

// RemoveGenerated deletes the generated file from each directory and
// returns the removed paths
func (fp *FileProcessor) RemoveGenerated(dirs []string) ([]string, error) {
	var removed []string
	for _, dir := range dirs {
		target := filepath.Join(dir, models.GeneratedFileName)
		err := os.Remove(target)
		switch {
		case err == nil:
			removed = append(removed, target)
		case os.IsNotExist(err):
		default:
			return removed, fmt.Errorf("failed to remove file %s: %w", target, err)
		}
	}
	return removed, nil
}
