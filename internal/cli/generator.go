package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/toyz/minimvc/internal/generator"
	"github.com/toyz/minimvc/internal/models"
	"github.com/toyz/minimvc/internal/parser"
	"github.com/toyz/minimvc/internal/utils"
)

// GenerationSummary records what one run produced
type GenerationSummary struct {
	PackagesProcessed int
	ControllersFound  int
	ServicesFound     int
	RoutesFound       int
	GeneratedFiles    []string
	RemovedFiles      []string // stale files from packages that lost their annotations
}

// Generator coordinates scanning, parsing, inference and writing
type Generator struct {
	scanner       *DirectoryScanner
	parser        *parser.Parser
	codeGenerator generator.CodeGenerator
	fileProcessor *utils.FileProcessor
	reporter      *DiagnosticReporter
	diagnostics   *utils.DiagnosticSystem
	summary       GenerationSummary
}

// NewGenerator creates a CLI generator reporting through diagnostics
func NewGenerator(verbose bool, diagnostics *utils.DiagnosticSystem) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticSilent)
	}
	return &Generator{
		scanner:       NewDirectoryScanner(),
		parser:        parser.NewParser(),
		codeGenerator: generator.NewGenerator(),
		fileProcessor: utils.NewFileProcessor(),
		reporter:      NewDiagnosticReporter(verbose),
		diagnostics:   diagnostics,
	}
}

// Reporter returns the error reporter used for failures
func (g *Generator) Reporter() *DiagnosticReporter {
	return g.reporter
}

// Summary returns the result of the last run
func (g *Generator) Summary() GenerationSummary {
	return g.summary
}

// Run executes the complete generation process
func (g *Generator) Run(config Config) error {
	started := time.Now()
	g.summary = GenerationSummary{}
	d := g.diagnostics

	if len(config.Directories) == 0 {
		return &models.GeneratorError{
			Type:    models.ErrorTypeValidation,
			Message: "at least one directory is required",
		}
	}
	d.Debug("Scanning directories: %v", config.Directories)

	d.StartProgress("Resolving module name")
	startDir, _ := splitPattern(config.Directories[0])
	resolver, err := NewModuleResolver(startDir, config.ModuleName)
	if err != nil {
		d.EndProgress(false, "")
		return &models.GeneratorError{
			Type:    models.ErrorTypeValidation,
			Message: "failed to resolve module name",
			Cause:   err,
			Suggestions: []string{
				"run from inside a Go module",
				"pass -module explicitly",
			},
		}
	}
	d.EndProgress(true, resolver.ModuleName())

	d.StartProgress("Scanning directories")
	dirs, err := g.scanner.ScanDirectories(config.Directories)
	if err != nil {
		d.EndProgress(false, "")
		return &models.GeneratorError{
			Type:    models.ErrorTypeFileSystem,
			Message: "failed to scan directories",
			Cause:   err,
		}
	}
	d.EndProgress(true, fmt.Sprintf("%d packages", len(dirs)))

	d.StartProgress("Parsing annotations")
	var pkgs []*models.PackageMetadata
	for _, dir := range dirs {
		meta, err := g.parsePackage(resolver, dir)
		if err != nil {
			d.EndProgress(false, "")
			return err
		}
		g.summary.PackagesProcessed++
		if !meta.HasComponents() {
			if err := g.removeStale(dir); err != nil {
				d.EndProgress(false, "")
				return err
			}
			continue
		}
		pkgs = append(pkgs, meta)
		g.count(meta)
		d.Verbose("%s: %d components", meta.ImportPath, len(meta.Components))
	}
	d.EndProgress(true, fmt.Sprintf("%d controllers, %d services", g.summary.ControllersFound, g.summary.ServicesFound))

	if !config.NoInfer && parser.NeedsInference(pkgs) {
		d.StartProgress("Inferring service capabilities")
		if err := parser.NewCapabilityResolver(resolver.ModuleDir()).Resolve(pkgs); err != nil {
			d.EndProgress(false, "")
			return err
		}
		d.EndProgress(true, "")
	}

	d.StartProgress("Writing generated files")
	for _, meta := range pkgs {
		mod, err := g.codeGenerator.GenerateModule(meta)
		if err != nil {
			d.EndProgress(false, "")
			return err
		}
		if err := os.WriteFile(mod.FilePath, []byte(mod.Content), 0o644); err != nil {
			d.EndProgress(false, "")
			return &models.GeneratorError{
				Type:    models.ErrorTypeFileSystem,
				File:    mod.FilePath,
				Message: "failed to write generated file",
				Cause:   err,
			}
		}
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, mod.FilePath)
	}
	d.EndProgress(true, fmt.Sprintf("%d files", len(g.summary.GeneratedFiles)))

	d.Verbose("Generation finished in %s", time.Since(started).Round(time.Millisecond))
	return nil
}

func (g *Generator) parsePackage(resolver *ModuleResolver, dir string) (*models.PackageMetadata, error) {
	importPath, err := resolver.BuildPackagePath(dir)
	if err != nil {
		return nil, &models.GeneratorError{
			Type:    models.ErrorTypeValidation,
			File:    dir,
			Message: "failed to build import path",
			Cause:   err,
		}
	}
	return g.parser.ParseDirectory(dir, importPath)
}

func (g *Generator) removeStale(dir string) error {
	removed, err := g.fileProcessor.RemoveGenerated([]string{dir})
	if err != nil {
		return &models.GeneratorError{
			Type:    models.ErrorTypeFileSystem,
			File:    filepath.Join(dir, models.GeneratedFileName),
			Message: "failed to remove stale generated file",
			Cause:   err,
		}
	}
	g.summary.RemovedFiles = append(g.summary.RemovedFiles, removed...)
	return nil
}

func (g *Generator) count(meta *models.PackageMetadata) {
	g.summary.ControllersFound += len(meta.Controllers())
	g.summary.ServicesFound += len(meta.Services())
	for _, c := range meta.Components {
		g.summary.RoutesFound += len(c.Methods)
	}
}
