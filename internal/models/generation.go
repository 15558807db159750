package models

// GeneratedFileName is the name of the file written into each package
const GeneratedFileName = "autogen_module.go"

// GeneratedModule represents a generated registration file
type GeneratedModule struct {
	PackageName string // name of the package
	FilePath    string // path where the file should be written
	Content     string // generated Go code
	Components  int    // number of descriptors in the file
	Routes      int    // number of routed methods
}
