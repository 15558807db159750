package cli

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories to scan; a trailing "/..." scans recursively
	Directories []string

	// ModuleName overrides the module path read from go.mod
	ModuleName string

	// Verbose enables detailed logging and error reporting
	Verbose bool

	// NoInfer disables interface capability inference for services
	NoInfer bool
}
