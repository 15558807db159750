package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"

	"github.com/toyz/minimvc/internal/annotations"
	"github.com/toyz/minimvc/internal/models"
)

// DiagnosticReporter renders generation failures for humans
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{verbose: verbose, out: os.Stderr}
}

// SetOutput redirects the reporter
func (r *DiagnosticReporter) SetOutput(w io.Writer) {
	r.out = w
}

// ReportWarning prints a one-line warning
func (r *DiagnosticReporter) ReportWarning(message string) {
	color.New(color.FgYellow, color.Bold).Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
}

// ReportError prints err with any location, context and suggestions it carries
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}
	color.New(color.FgRed, color.Bold).Fprintln(r.out, "\nERROR: Code Generation Failed")
	fmt.Fprintln(r.out, "=============================")

	var genErr *models.GeneratorError
	if !errors.As(err, &genErr) {
		fmt.Fprintf(r.out, "\nMessage: %s\n", err.Error())
		return
	}

	fmt.Fprintf(r.out, "\nType: %s\n", genErr.Type)
	fmt.Fprintf(r.out, "Message: %s\n", genErr.Message)
	if genErr.File != "" {
		if genErr.Line > 0 {
			fmt.Fprintf(r.out, "Location: %s:%d\n", genErr.File, genErr.Line)
		} else {
			fmt.Fprintf(r.out, "File: %s\n", genErr.File)
		}
	}

	if genErr.Cause != nil {
		var annErr *annotations.AnnotationError
		switch {
		case errors.As(genErr.Cause, &annErr) && annErr.Raw != "":
			fmt.Fprintf(r.out, "Annotation: %s\n", annErr.Raw)
			fmt.Fprintf(r.out, "Problem: %s\n", annErr.Message)
		case r.verbose:
			fmt.Fprintf(r.out, "Underlying cause: %s\n", genErr.Cause)
		}
	}

	if len(genErr.Context) > 0 {
		keys := make([]string, 0, len(genErr.Context))
		for k := range genErr.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintln(r.out, "\nContext:")
		for _, k := range keys {
			fmt.Fprintf(r.out, "  %s: %s\n", k, genErr.Context[k])
		}
	}

	suggestions := append([]string(nil), genErr.Suggestions...)
	suggestions = append(suggestions, helpFor(genErr.Type)...)
	if len(suggestions) > 0 {
		fmt.Fprintln(r.out, "\nSuggestions:")
		for _, s := range suggestions {
			fmt.Fprintf(r.out, "  - %s\n", s)
		}
	}
}

func helpFor(t models.ErrorType) []string {
	switch t {
	case models.ErrorTypeAnnotationSyntax:
		return []string{"annotations look like //mvc::route /path or //mvc::service -Name=foo"}
	case models.ErrorTypeValidation:
		return []string{"routed parameters must be *http.Request, http.ResponseWriter, or a string/int marked with //mvc::param"}
	case models.ErrorTypeCapability:
		return []string{"run with -no-infer and declare interfaces with -Implements to skip type checking"}
	case models.ErrorTypeFileSystem:
		return []string{"check directory permissions"}
	default:
		return nil
	}
}
