package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applySkips(content string, matches []Match) string {
	out := content
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		out = out[:m.Begin] + out[m.End:]
	}
	return out
}

func TestCommentStripperKeepsNewline(t *testing.T) {
	content := "A % a comment\nB"
	matches, err := CommentStripper{}.FindSkips(content)
	require.NoError(t, err)
	assert.Equal(t, "A \nB", applySkips(content, matches))
}

func TestCommentStripperRespectsEscapedPercent(t *testing.T) {
	content := `100\% done % real comment` + "\n"
	matches, err := CommentStripper{}.FindSkips(content)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Contains(t, content[matches[0].Begin:matches[0].End], "real comment")
}

func TestCommentStripperNoComment(t *testing.T) {
	matches, err := CommentStripper{}.FindSkips("plain text")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestCommentStripperExemptsFlachtexMarkers(t *testing.T) {
	content := "%%FLACHTEX-EXPLICIT-IMPORT[c.tex]\n%%FLACHTEX-SKIP-START\nstuff\n%%FLACHTEX-SKIP-STOP"
	matches, err := CommentStripper{}.FindSkips(content)
	require.NoError(t, err)
	assert.Empty(t, matches, "control markers must survive comment stripping so later import/skip rules still see them")
}
