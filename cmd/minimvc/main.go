package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/toyz/minimvc/internal/cli"
	"github.com/toyz/minimvc/internal/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("minimvc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		moduleFlag  = fs.String("module", "", "Custom module name for imports (defaults to go.mod module)")
		verboseFlag = fs.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag   = fs.Bool("quiet", false, "Only show errors and final results")
		cleanFlag   = fs.Bool("clean", false, "Delete all autogen_module.go files from the specified directories")
		noInferFlag = fs.Bool("no-infer", false, "Do not type-check packages to infer service interfaces")
		helpFlag    = fs.Bool("help", false, "Show help information")
	)

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: minimvc [options] <directory-paths...>\n\n")
		fmt.Fprintf(stderr, "minimvc Code Generator\n")
		fmt.Fprintf(stderr, "Scans directories for Go files with mvc:: annotations and writes component descriptors.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nArguments:\n")
		fmt.Fprintf(stderr, "  directory-paths    One or more directories to scan for annotated Go files\n")
		fmt.Fprintf(stderr, "                     Supports Go-style patterns like './...' for recursive scanning\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  minimvc ./...                          # Scan everything recursively\n")
		fmt.Fprintf(stderr, "  minimvc ./internal/web ./internal/svc  # Scan specific directories\n")
		fmt.Fprintf(stderr, "  minimvc -module example.com/app ./...  # Specify custom module name\n")
		fmt.Fprintf(stderr, "  minimvc -clean ./...                   # Delete all autogen_module.go files\n")
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if *helpFlag {
		fs.Usage()
		return 0
	}

	dirs := fs.Args()
	if len(dirs) == 0 {
		fmt.Fprintf(stderr, "Error: At least one directory path is required\n\n")
		fs.Usage()
		return 1
	}

	var diagnostics *utils.DiagnosticSystem
	switch {
	case *quietFlag:
		diagnostics = utils.NewQuietDiagnostics()
	case *verboseFlag:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	diagnostics.SetOutput(stdout, stderr)

	diagnostics.Header("code generator")

	if *cleanFlag {
		removed, err := cli.NewCleaner().CleanGeneratedFiles(dirs)
		if err != nil {
			diagnostics.Error("Clean operation failed: %v", err)
			return 1
		}
		for _, f := range removed {
			diagnostics.Verbose("removed %s", f)
		}
		diagnostics.Success("Removed %d generated files", len(removed))
		return 0
	}

	if *verboseFlag {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Target directories: %s", strings.Join(dirs, ", "))
		if *moduleFlag != "" {
			diagnostics.List("Custom module: %s", *moduleFlag)
		}
		diagnostics.List("Capability inference: %t", !*noInferFlag)
	}

	generator := cli.NewGenerator(*verboseFlag, diagnostics)
	generator.Reporter().SetOutput(stderr)

	err := generator.Run(cli.Config{
		Directories: dirs,
		ModuleName:  *moduleFlag,
		Verbose:     *verboseFlag,
		NoInfer:     *noInferFlag,
	})
	if err != nil {
		generator.Reporter().ReportError(err)
		return 1
	}

	summary := generator.Summary()
	diagnostics.Summary("Generation Complete!", map[string]any{
		"Packages processed": summary.PackagesProcessed,
		"Modules generated":  len(summary.GeneratedFiles),
		"Controllers found":  summary.ControllersFound,
		"Services found":     summary.ServicesFound,
		"Routes found":       summary.RoutesFound,
	})

	if *verboseFlag && len(summary.GeneratedFiles) > 0 {
		diagnostics.Subsection("Generated Files")
		for _, file := range summary.GeneratedFiles {
			diagnostics.List("%s", file)
		}
	}
	return 0
}
