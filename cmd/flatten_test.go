package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTempFiles materializes files (relative path -> content) under a fresh
// temp directory and returns its absolute path, mirroring the teacher's own
// WithTempFS helper for CLI-boundary tests that need a real filesystem for
// finder.NewOSFinder to resolve against.
func writeTempFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return dir
}

func testFlatten(path string, p *flattenParams) (int, string, string) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	errc := runFlatten(path, p, stdout, stderr)
	return errc, stdout.String(), stderr.String()
}

func TestRunFlattenExitOKRawOutput(t *testing.T) {
	dir := writeTempFiles(t, map[string]string{
		"main.tex": "A\n\\input{b}\nC",
		"b.tex":    "B",
	})
	errc, stdout, stderr := testFlatten(filepath.Join(dir, "main.tex"), &flattenParams{})
	require.Equal(t, exitOK, errc)
	assert.Empty(t, stderr)
	assert.Equal(t, "A\nB\nC", stdout)
}

func TestRunFlattenExitIOErrorOnMissingFile(t *testing.T) {
	dir := writeTempFiles(t, map[string]string{
		"main.tex": "\\input{missing}",
	})
	errc, _, stderr := testFlatten(filepath.Join(dir, "main.tex"), &flattenParams{})
	require.Equal(t, exitIOError, errc)
	assert.NotEmpty(t, stderr)
}

func TestRunFlattenExitStructuralErrorOnCycle(t *testing.T) {
	dir := writeTempFiles(t, map[string]string{
		"a.tex": "\\input{b}",
		"b.tex": "\\input{a}",
	})
	errc, _, stderr := testFlatten(filepath.Join(dir, "a.tex"), &flattenParams{})
	require.Equal(t, exitStructuralError, errc)
	assert.NotEmpty(t, stderr)
}

func TestRunFlattenExitUsageErrorOnAttachWithoutJSON(t *testing.T) {
	dir := writeTempFiles(t, map[string]string{
		"main.tex": "A",
	})
	errc, _, stderr := testFlatten(filepath.Join(dir, "main.tex"), &flattenParams{attach: true})
	require.Equal(t, exitUsageError, errc)
	assert.Contains(t, stderr, "--attach requires --to_json")
}

func TestRunFlattenExitUsageErrorOnChangesPrefixWithoutChanges(t *testing.T) {
	dir := writeTempFiles(t, map[string]string{
		"main.tex": "A",
	})
	errc, _, stderr := testFlatten(filepath.Join(dir, "main.tex"), &flattenParams{changesPrefix: true})
	require.Equal(t, exitUsageError, errc)
	assert.Contains(t, stderr, "--changes_prefix requires --changes")
}

func TestRunFlattenJSONEnvelope(t *testing.T) {
	dir := writeTempFiles(t, map[string]string{
		"main.tex": "A\n\\input{b}\nC",
		"b.tex":    "B",
	})
	errc, stdout, stderr := testFlatten(filepath.Join(dir, "main.tex"), &flattenParams{toJSON: true})
	require.Equal(t, exitOK, errc)
	assert.Empty(t, stderr)

	var env struct {
		Content string `json:"content"`
		Origins []struct {
			Begin  int     `json:"begin"`
			End    int     `json:"end"`
			Origin *string `json:"origin"`
			Offset int     `json:"offset"`
		} `json:"origins"`
		Sources map[string]string `json:"sources"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &env))
	assert.Equal(t, "A\nB\nC", env.Content)
	assert.Nil(t, env.Sources)
}

func TestRunFlattenJSONEnvelopeWithAttach(t *testing.T) {
	dir := writeTempFiles(t, map[string]string{
		"main.tex": "A\n\\input{b}\nC",
		"b.tex":    "B",
	})
	errc, stdout, stderr := testFlatten(filepath.Join(dir, "main.tex"), &flattenParams{toJSON: true, attach: true})
	require.Equal(t, exitOK, errc)
	assert.Empty(t, stderr)

	var env struct {
		Content string            `json:"content"`
		Sources map[string]string `json:"sources"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &env))
	assert.Equal(t, "A\nB\nC", env.Content)
	assert.Equal(t, "B", env.Sources[filepath.Join(dir, "b.tex")])
}
