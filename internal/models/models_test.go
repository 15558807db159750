package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackageMetadata_Filters(t *testing.T) {
	pkg := &PackageMetadata{
		Components: []ComponentMetadata{
			{Name: "A", Kind: ComponentController},
			{Name: "B", Kind: ComponentService},
			{Name: "C", Kind: ComponentController},
		},
	}

	assert.True(t, pkg.HasComponents())
	assert.Len(t, pkg.Controllers(), 2)
	assert.Equal(t, "B", pkg.Services()[0].Name)
	assert.False(t, (&PackageMetadata{}).HasComponents())
}

func TestMethodMetadata_Returns(t *testing.T) {
	assert.False(t, MethodMetadata{ReturnKind: ReturnNone}.Returns())
	assert.False(t, MethodMetadata{ReturnKind: ReturnError}.Returns())
	assert.True(t, MethodMetadata{ReturnKind: ReturnValue}.Returns())
	assert.True(t, MethodMetadata{ReturnKind: ReturnValueError}.Returns())
}

func TestGeneratorError(t *testing.T) {
	cause := errors.New("disk full")
	err := (&GeneratorError{
		Type:    ErrorTypeFileSystem,
		File:    "a.go",
		Line:    4,
		Message: "cannot write",
		Cause:   cause,
	}).WithSuggestion("free some space").WithContext("dir", "/tmp")

	assert.Equal(t, "a.go:4: cannot write: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, []string{"free some space"}, err.Suggestions)
	assert.Equal(t, "/tmp", err.Context["dir"])

	assert.Equal(t, "a.go: x", (&GeneratorError{File: "a.go", Message: "x"}).Error())
	assert.Equal(t, "x", (&GeneratorError{Message: "x"}).Error())
	assert.Equal(t, "capability", ErrorTypeCapability.String())
}
