package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlachtexSkipBasic(t *testing.T) {
	content := "X\n%%FLACHTEX-SKIP-START\nHIDE\n%%FLACHTEX-SKIP-STOP\nY"
	matches, err := FlachtexSkip{}.FindSkips(content)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	kept := content[:matches[0].Begin] + content[matches[0].End:]
	assert.Equal(t, "X\n\nY", kept)
}

func TestFlachtexSkipNoMarkers(t *testing.T) {
	matches, err := FlachtexSkip{}.FindSkips("plain text")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFlachtexSkipUnbalancedStart(t *testing.T) {
	_, err := FlachtexSkip{}.FindSkips("%%FLACHTEX-SKIP-START\nno stop")
	require.Error(t, err)
}

func TestFlachtexSkipUnbalancedStop(t *testing.T) {
	_, err := FlachtexSkip{}.FindSkips("no start\n%%FLACHTEX-SKIP-STOP")
	require.Error(t, err)
}
