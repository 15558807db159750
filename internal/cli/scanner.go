package cli

import (
	"strings"

	"github.com/toyz/minimvc/internal/utils"
)

// DirectoryScanner expands directory patterns into package directories
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{fileProcessor: utils.NewFileProcessor()}
}

// ScanDirectories returns the absolute package directories named by
// patterns. "dir/..." descends recursively, a plain path does not.
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	for _, pattern := range patterns {
		root, recursive := splitPattern(pattern)
		dirs, err := s.fileProcessor.PackageDirs(root, recursive)
		if err != nil {
			return nil, err
		}
		for _, d := range dirs {
			if !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	return out, nil
}

func splitPattern(pattern string) (string, bool) {
	if pattern == "..." {
		return ".", true
	}
	if base, ok := strings.CutSuffix(pattern, "/..."); ok {
		if base == "" {
			base = "."
		}
		return base, true
	}
	return pattern, false
}
