package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applySubs(content string, matches []SubstitutionMatch) string {
	out := content
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		out = out[:m.Begin] + m.Replacement + out[m.End:]
	}
	return out
}

func TestChangesAdded(t *testing.T) {
	matches, err := Changes{}.FindSubstitutions(`see \added{new text} here`)
	require.NoError(t, err)
	assert.Equal(t, "see new text here", applySubs(`see \added{new text} here`, matches))
}

func TestChangesDeleted(t *testing.T) {
	matches, err := Changes{}.FindSubstitutions(`see \deleted{gone} here`)
	require.NoError(t, err)
	assert.Equal(t, "see  here", applySubs(`see \deleted{gone} here`, matches))
}

func TestChangesReplacedKeepsFirstArg(t *testing.T) {
	matches, err := Changes{}.FindSubstitutions(`\replaced{new}{old} text`)
	require.NoError(t, err)
	assert.Equal(t, "new text", applySubs(`\replaced{new}{old} text`, matches))
}

func TestChangesPrefixKeepsOptionText(t *testing.T) {
	matches, err := Changes{Prefix: true}.FindSubstitutions(`\added[id=js]{new text}`)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "[id=js] new text", matches[0].Replacement)
}

func TestChangesAddedWithNestedBraces(t *testing.T) {
	content := `\added{a \textbf{nested} b} done`
	matches, err := Changes{}.FindSubstitutions(content)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, `a \textbf{nested} b done`, applySubs(content, matches))
}

func TestChangesDeletedWithEscapedBraces(t *testing.T) {
	content := `\deleted{a \{escaped\} b} done`
	matches, err := Changes{}.FindSubstitutions(content)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, " done", applySubs(content, matches))
}

func TestChangesReplacedWithNestedAndEscapedBraces(t *testing.T) {
	content := `\replaced{a \{x\} \textbf{y}}{old} done`
	matches, err := Changes{}.FindSubstitutions(content)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, `a \{x\} \textbf{y} done`, applySubs(content, matches))
}

func TestChangesWithoutPrefixInheritsOrigin(t *testing.T) {
	matches, err := Changes{}.FindSubstitutions(`\added{new text}`)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.True(t, matches[0].InheritOrigin)
}
