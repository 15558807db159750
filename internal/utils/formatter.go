package utils

import (
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"os"
)

// FormatGoCodeString gofmt's source, reporting syntax errors separately
// from formatter failures
func FormatGoCodeString(source string) (string, error) {
	formatted, err := format.Source([]byte(source))
	if err != nil {
		if parseErr := ValidateGoCode(source); parseErr != nil {
			return source, fmt.Errorf("invalid Go syntax: %w", parseErr)
		}
		return source, err
	}
	return string(formatted), nil
}

// FormatAndWriteGoFile formats code and writes it to filename
func FormatAndWriteGoFile(filename, code string) error {
	formatted, err := FormatGoCodeString(code)
	if err != nil {
		return fmt.Errorf("failed to format %s: %w", filename, err)
	}
	return os.WriteFile(filename, []byte(formatted), 0o644)
}

// ValidateGoCode checks that code parses as a Go file
func ValidateGoCode(code string) error {
	_, err := parser.ParseFile(token.NewFileSet(), "", code, parser.ParseComments)
	return err
}
