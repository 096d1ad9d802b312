package flachtex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveCommentsPublicEntryPoint(t *testing.T) {
	ts := FromSource("A % comment\nB", Src("main.tex"), 0)
	out, err := RemoveComments(ts)
	require.NoError(t, err)
	assert.Equal(t, "A \nB", out.String())
}

func TestFromJSONPublicEntryPoint(t *testing.T) {
	ts := FromSource("AB", Src("main.tex"), 3)
	back, err := FromJSON(ts.ToJSON())
	require.NoError(t, err)
	assert.Equal(t, ts.String(), back.String())
}
