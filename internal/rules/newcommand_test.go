package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewcommandArityZero(t *testing.T) {
	content := "\\newcommand{\\t}{T}\nUse \\t here."
	matches, err := Newcommand{}.FindSubstitutions(content)
	require.NoError(t, err)
	assert.Equal(t, "\nUse T here.", applySubs(content, matches))
}

func TestNewcommandWithArguments(t *testing.T) {
	content := `\newcommand{\greet}[1]{Hello, #1!} \greet{World}`
	matches, err := Newcommand{}.FindSubstitutions(content)
	require.NoError(t, err)
	assert.Equal(t, " Hello, World!", applySubs(content, matches))
}

func TestNewcommandUnknownMacroLeftUntouched(t *testing.T) {
	content := `\unknown{x}`
	matches, err := Newcommand{}.FindSubstitutions(content)
	require.NoError(t, err)
	assert.Equal(t, content, applySubs(content, matches))
}

func TestNewcommandNameBoundary(t *testing.T) {
	content := `\newcommand{\t}{T} \ttable`
	matches, err := Newcommand{}.FindSubstitutions(content)
	require.NoError(t, err)
	assert.Equal(t, " \\ttable", applySubs(content, matches))
}

func TestNewcommandBodyWithNestedBraces(t *testing.T) {
	content := `\newcommand{\box}[1]{[\textbf{#1}]} \box{hi}`
	matches, err := Newcommand{}.FindSubstitutions(content)
	require.NoError(t, err)
	assert.Equal(t, ` [\textbf{hi}]`, applySubs(content, matches))
}

func TestNewcommandBodyWithEscapedBraces(t *testing.T) {
	content := `\newcommand{\lit}{\{literal\}} \lit`
	matches, err := Newcommand{}.FindSubstitutions(content)
	require.NoError(t, err)
	assert.Equal(t, ` \{literal\}`, applySubs(content, matches))
}

func TestNewcommandWrongArityLeftUntouched(t *testing.T) {
	content := `\newcommand{\greet}[1]{Hi #1} bare: \greet plain text`
	matches, err := Newcommand{}.FindSubstitutions(content)
	require.NoError(t, err)
	result := applySubs(content, matches)
	assert.Contains(t, result, `\greet plain text`)
}

func TestNewcommandRecursionLimit(t *testing.T) {
	content := "\\newcommand{\\a}{\\b}\n\\newcommand{\\b}{\\a}\n\\a"
	var diags []string
	matches, err := Newcommand{MaxDepth: 4, Diagnostics: &diags}.FindSubstitutions(content)
	require.NoError(t, err)
	result := applySubs(content, matches)
	assert.Contains(t, result, "\\a")
	assert.NotEmpty(t, diags)
}
