package mvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Scan(t *testing.T) {
	c := MustNewCatalog([]TypeDescriptor{
		{Package: "example.com/app", Name: "Root"},
		{Package: "example.com/app/web", Name: "Web"},
		{Package: "example.com/application", Name: "Lookalike"},
		{Package: "other.org/lib", Name: "Lib"},
	})

	tests := []struct {
		root string
		want []string
	}{
		{root: "example.com/app", want: []string{"Root", "Web"}},
		{root: "example.com/app/...", want: []string{"Root", "Web"}},
		{root: "/example.com/app/web/", want: []string{"Web"}},
		{root: "", want: []string{"Root", "Web", "Lookalike", "Lib"}},
		{root: "nowhere", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.root, func(t *testing.T) {
			got, err := c.Scan(tt.root)
			require.NoError(t, err)

			var names []string
			for _, d := range got {
				names = append(names, d.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestCatalog_AddDuplicate(t *testing.T) {
	c := MustNewCatalog()
	require.NoError(t, c.Add(TypeDescriptor{Package: "p", Name: "A"}))

	err := c.Add(TypeDescriptor{Package: "p", Name: "A"})
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, 1, c.Len())

	err = c.Add(TypeDescriptor{Package: "p", Name: "B"}, TypeDescriptor{Package: "p", Name: "B"})
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, 1, c.Len(), "a rejected batch adds nothing")
}

func TestNewCatalog_Duplicate(t *testing.T) {
	g := []TypeDescriptor{{Package: "p", Name: "A"}}

	c, err := NewCatalog(g, g)
	assert.Nil(t, c)
	require.Error(t, err)
	assert.Equal(t, ConfigurationErrorCode, CodeOf(err))
	assert.Contains(t, err.Error(), "p.A already added")

	assert.Panics(t, func() { MustNewCatalog(g, g) })
}

func TestTypeDescriptor_ID(t *testing.T) {
	assert.Equal(t, "example.com/x.Thing", TypeDescriptor{Package: "example.com/x", Name: "Thing"}.ID())
	assert.Equal(t, "Thing", TypeDescriptor{Name: "Thing"}.ID())
}
