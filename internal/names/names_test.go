package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	table := Default()

	tests := []struct {
		input string
		want  string
	}{
		{"Clifford Sobel", "Clifford Sobel"},
		{"C. Sobel", "Clifford Sobel"},
		{"Sobel, Clifford", "Clifford Sobel"},
		{"SCOTT SOBEL", "Scott Sobel"},
		{"  scott   sobel ", "Scott Sobel"},
		{"J.D. Smith", "John Douglas Smith"},
		{"Antoine Colaco", "Antoine Colaço"},
		{"K.SPANGLER", "Kelli Spangler"},
		// period removal
		{"M.. Nicklas", "Michael Nicklas"},
		// surname + initial heuristic
		{"J. D. Smith", "John Douglas Smith"},
		{"CLIFFORD A. SOBEL", "Clifford Sobel"},
		{"Paulo R Passoni", "Paulo Passoni"},
		// title-case fallback
		{"JANE DOE", "Jane Doe"},
		{"maria da silva", "Maria Da Silva"},
		{"PAT O'BRIEN", "Pat O'Brien"},
		{"mary o'neil", "Mary O'Neil"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Normalize(tt.input))
		})
	}
}

func TestNormalize_SameSurnameVariantsConverge(t *testing.T) {
	table := Default()
	want := table.Normalize("Clifford Sobel")
	for _, variant := range []string{"C. Sobel", "Sobel, Clifford", "cliff sobel", "c.sobel"} {
		assert.Equal(t, want, table.Normalize(variant), variant)
	}
}

func TestNormalize_SurnameInitialCollision(t *testing.T) {
	// Unknown first name sharing an initial with a canonical holder resolves
	// to that holder. Only an alias entry can separate them.
	table := Default()
	assert.Equal(t, "Scott Sobel", table.Normalize("Steve Sobel"))

	canonical := append(append([]string(nil), DefaultCanonical...), "Steve Sobel")
	withSteve, err := NewTable(canonical, DefaultAliases).WithAlias("s. sobel jr", "Steve Sobel")
	require.NoError(t, err)
	assert.Equal(t, "Steve Sobel", withSteve.Normalize("STEVE SOBEL"))
	assert.Equal(t, "Steve Sobel", withSteve.Normalize("S. Sobel Jr"))
}

func TestNormalize_Deterministic(t *testing.T) {
	table := Default()
	first := table.Normalize("Sobel, Scott")
	for i := 0; i < 50; i++ {
		require.Equal(t, first, table.Normalize("Sobel, Scott"))
	}
}

func TestWithAlias(t *testing.T) {
	base := Default()

	next, err := base.WithAlias("Scotty S", "Scott Sobel")
	require.NoError(t, err)
	assert.Equal(t, "Scott Sobel", next.Normalize("SCOTTY S"))

	// the original table is untouched
	assert.Equal(t, "Scotty S", base.Normalize("SCOTTY S"))

	_, err = base.WithAlias("someone", "Not A Holder")
	assert.Error(t, err)

	_, err = base.WithAlias("   ", "Scott Sobel")
	assert.Error(t, err)
}

func TestCanonical(t *testing.T) {
	table := Default()
	got := table.Canonical()
	assert.Equal(t, DefaultCanonical, got)

	got[0] = "changed"
	assert.Equal(t, "Scott Sobel", table.Canonical()[0])
}
