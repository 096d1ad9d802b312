package finder

import (
	"testing"

	"github.com/gobwas/glob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapFinderRelativeToCallingDir(t *testing.T) {
	f := NewMapFinder("/doc", map[string]string{
		"/doc/chapters/b.tex": "B",
	})
	id, content, err := f.Fetch("b", "/doc/chapters/main.tex")
	require.NoError(t, err)
	assert.Equal(t, "/doc/chapters/b.tex", id)
	assert.Equal(t, "B", content)
}

func TestMapFinderFallsBackToRoot(t *testing.T) {
	f := NewMapFinder("/doc", map[string]string{
		"/doc/shared.tex": "S",
	})
	id, content, err := f.Fetch("shared", "/doc/chapters/main.tex")
	require.NoError(t, err)
	assert.Equal(t, "/doc/shared.tex", id)
	assert.Equal(t, "S", content)
}

func TestMapFinderAppendsTexSuffix(t *testing.T) {
	f := NewMapFinder("/doc", map[string]string{
		"/doc/b.tex": "B",
	})
	_, content, err := f.Fetch("b", "/doc/main.tex")
	require.NoError(t, err)
	assert.Equal(t, "B", content)
}

func TestMapFinderDoesNotAppendSuffixWhenOneIsPresent(t *testing.T) {
	f := NewMapFinder("/doc", map[string]string{
		"/doc/b.tex":     "dot-tex",
		"/doc/b.tex.bak": "backup",
	})
	_, content, err := f.Fetch("b.tex", "/doc/main.tex")
	require.NoError(t, err)
	assert.Equal(t, "dot-tex", content)
}

func TestMapFinderFileNotFoundListsTriedPaths(t *testing.T) {
	f := NewMapFinder("/doc", map[string]string{})
	_, _, err := f.Fetch("missing", "/doc/main.tex")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestMapFinderIgnorePattern(t *testing.T) {
	f := NewMapFinder("/doc", map[string]string{
		"/doc/build/gen.tex": "GEN",
	})
	f.ignore = append(f.ignore, mustGlob(t, "/doc/build/**"))
	_, _, err := f.Fetch("build/gen", "/doc/main.tex")
	require.Error(t, err)
}

func TestFetchCachesContent(t *testing.T) {
	calls := 0
	backend := countingMapBackend{mapBackend: mapBackend{files: map[string]string{"/doc/b.tex": "B"}}, calls: &calls}
	f, err := newFinder("/doc", backend, nil)
	require.NoError(t, err)
	_, _, err = f.Fetch("b", "/doc/main.tex")
	require.NoError(t, err)
	_, _, err = f.Fetch("b", "/doc/other.tex")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

type countingMapBackend struct {
	mapBackend
	calls *int
}

func (b countingMapBackend) read(path string) (string, error) {
	*b.calls++
	return b.mapBackend.read(path)
}

func TestGlobExcludeNamesSortsAndDeduplicates(t *testing.T) {
	got := GlobExcludeNames([]string{"b/**", "a/**", "b/**"})
	assert.Equal(t, []string{"a/**", "b/**"}, got)
}

func TestNewFinderNormalizesIgnorePatterns(t *testing.T) {
	f, err := newFinder("/doc", mapBackend{files: map[string]string{"/doc/build/gen.tex": "GEN"}},
		[]string{"build/**", "build/**"})
	require.NoError(t, err)
	require.Len(t, f.ignore, 1)
	_, _, err = f.Fetch("build/gen", "/doc/main.tex")
	require.Error(t, err)
}

func mustGlob(t *testing.T, pattern string) glob.Glob {
	t.Helper()
	g, err := glob.Compile(pattern, '/')
	require.NoError(t, err)
	return g
}
