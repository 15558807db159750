package generator

import (
	"path/filepath"

	"github.com/toyz/minimvc/internal/models"
	"github.com/toyz/minimvc/internal/templates"
	"github.com/toyz/minimvc/internal/utils"
)

// CodeGenerator produces the registration file for a parsed package
type CodeGenerator interface {
	GenerateModule(metadata *models.PackageMetadata) (*models.GeneratedModule, error)
}

// Generator implements CodeGenerator with text/template and go/format
type Generator struct{}

// NewGenerator creates a new code generator instance
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateModule renders autogen_module.go for metadata
func (g *Generator) GenerateModule(metadata *models.PackageMetadata) (*models.GeneratedModule, error) {
	if metadata == nil {
		return nil, &models.GeneratorError{
			Type:    models.ErrorTypeGeneration,
			Message: "metadata cannot be nil",
		}
	}

	filePath := filepath.Join(metadata.PackagePath, models.GeneratedFileName)

	data, err := templates.NewModuleData(metadata)
	if err != nil {
		return nil, &models.GeneratorError{
			Type:    models.ErrorTypeGeneration,
			File:    filePath,
			Message: "failed to prepare module data",
			Cause:   err,
		}
	}

	raw, err := templates.RenderModule(data)
	if err != nil {
		return nil, &models.GeneratorError{
			Type:    models.ErrorTypeGeneration,
			File:    filePath,
			Message: "failed to render module",
			Cause:   err,
		}
	}

	content, err := utils.FormatGoCodeString(raw)
	if err != nil {
		return nil, (&models.GeneratorError{
			Type:    models.ErrorTypeGeneration,
			File:    filePath,
			Message: "generated code does not format",
			Cause:   err,
		}).WithContext("package", metadata.ImportPath)
	}

	routes := 0
	for _, c := range metadata.Components {
		routes += len(c.Methods)
	}

	return &models.GeneratedModule{
		PackageName: metadata.PackageName,
		FilePath:    filePath,
		Content:     content,
		Components:  len(metadata.Components),
		Routes:      routes,
	}, nil
}
