package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputIncludeMatchesBoth(t *testing.T) {
	matches, err := InputInclude{}.FindImports(`\input{a} and \include{b}`)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].PathExpr)
	assert.Equal(t, "b", matches[1].PathExpr)
}

func TestSubimportJoinsDirAndFile(t *testing.T) {
	matches, err := Subimport{}.FindImports(`\subimport{chapters}{intro}`)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "chapters/intro", matches[0].PathExpr)
}

func TestExplicitImportMatchesMarkerLine(t *testing.T) {
	matches, err := ExplicitImport{}.FindImports("%%FLACHTEX-EXPLICIT-IMPORT[c.tex]\nrest")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "c.tex", matches[0].PathExpr)
	assert.Equal(t, 0, matches[0].Begin)
}
