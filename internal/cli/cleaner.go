package cli

import (
	"fmt"

	"github.com/toyz/minimvc/internal/models"
	"github.com/toyz/minimvc/internal/utils"
)

// Cleaner removes generated files
type Cleaner struct {
	fileProcessor *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{fileProcessor: utils.NewFileProcessor()}
}

// CleanGeneratedFiles removes every autogen_module.go under patterns and
// returns the removed paths
func (c *Cleaner) CleanGeneratedFiles(patterns []string) ([]string, error) {
	var dirs []string
	for _, p := range patterns {
		root, recursive := splitPattern(p)
		found, err := c.fileProcessor.GeneratedDirs(root, recursive)
		if err != nil {
			return nil, fmt.Errorf("failed to clean %s: %w", p, err)
		}
		dirs = append(dirs, found...)
	}

	removed, err := c.fileProcessor.RemoveGenerated(dirs)
	if err != nil {
		return removed, fmt.Errorf("failed to remove %s: %w", models.GeneratedFileName, err)
	}
	return removed, nil
}
