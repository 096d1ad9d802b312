// Package finder implements the File Finder (C6): resolving an author
// written include reference relative to a calling file into a canonical
// source identifier, and fetching its raw contents. The resolution policy
// is filesystem-shaped but the backend is pluggable (real files, or an
// in-memory map for tests), mirroring the teacher's own loader abstraction
// that separates path-walking policy from the underlying storage.
package finder

import (
	"os"
	"path/filepath"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dkrupke/flachtex/internal/ferr"
	"github.com/gobwas/glob"
)

// backend supplies the raw existence/read/canonicalization primitives that
// differ between a real filesystem and an in-memory fixture.
type backend interface {
	canonicalize(path string) string
	exists(path string) bool
	read(path string) (string, error)
}

// Finder resolves include references per the order of §4.5:
//
//  1. reference resolved relative to dirname(callingSource)
//  2. same, with ".tex" appended if reference has no suffix
//  3. reference resolved relative to the document root
//  4. same, with ".tex" appended
//  5. walk up parent directories of the calling source, repeating (1)-(2)
//     at each level, stopping at the filesystem root.
//
// A bounded LRU cache of raw content avoids re-reading a file that was
// already resolved earlier in the same process, across repeated Fetch
// calls for different references that happen to land on the same
// candidate path.
type Finder struct {
	RootDir string
	backend backend
	ignore  []glob.Glob
	cache   *lru.Cache[string, string]
}

const defaultCacheSize = 256

// NewOSFinder returns a Finder backed by the real filesystem, rooted at the
// directory containing rootPath. ignorePatterns are shell-style globs
// (github.com/gobwas/glob); any candidate path whose canonical form, or
// whose form relative to the root directory (e.g. "build/gen.tex"), matches
// one is skipped during resolution, as if it did not exist.
func NewOSFinder(rootPath string, ignorePatterns []string) (*Finder, error) {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, err
	}
	f, err := newFinder(filepath.Dir(abs), osBackend{}, ignorePatterns)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// NewMapFinder returns a Finder backed by an in-memory map of canonical
// path -> content, for tests and embedders that don't want real file I/O.
// rootDir is the virtual directory of the root document (e.g. "/doc").
func NewMapFinder(rootDir string, files map[string]string) *Finder {
	f, _ := newFinder(rootDir, mapBackend{files: files}, nil)
	return f
}

func newFinder(rootDir string, b backend, ignorePatterns []string) (*Finder, error) {
	ignorePatterns = GlobExcludeNames(ignorePatterns)
	globs := make([]glob.Glob, 0, len(ignorePatterns))
	for _, p := range ignorePatterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, err
		}
		globs = append(globs, g)
	}
	cache, _ := lru.New[string, string](defaultCacheSize)
	return &Finder{RootDir: rootDir, backend: b, ignore: globs, cache: cache}, nil
}

// Fetch resolves reference (as written in callingSource) to a canonical
// source id and its raw content.
func (f *Finder) Fetch(reference, callingSource string) (sourceID string, content string, err error) {
	var tried []string
	for _, cand := range f.candidates(reference, callingSource) {
		canon := f.backend.canonicalize(cand)
		if f.ignored(canon) {
			continue
		}
		tried = append(tried, canon)
		if v, ok := f.cache.Get(canon); ok {
			return canon, v, nil
		}
		if f.backend.exists(canon) {
			bs, err := f.backend.read(canon)
			if err != nil {
				return "", "", err
			}
			f.cache.Add(canon, bs)
			return canon, bs, nil
		}
	}
	return "", "", ferr.New(ferr.FileNotFound, nil, "could not resolve %q (from %q); tried: %v", reference, callingSource, tried)
}

func (f *Finder) ignored(path string) bool {
	rel, relErr := filepath.Rel(f.RootDir, path)
	for _, g := range f.ignore {
		if g.Match(path) || (relErr == nil && g.Match(filepath.ToSlash(rel))) {
			return true
		}
	}
	return false
}

// candidates enumerates, in resolution order, every path worth trying for
// reference as written in callingSource.
func (f *Finder) candidates(reference, callingSource string) []string {
	var out []string
	seen := map[string]bool{}
	add := func(base string) {
		p := filepath.Join(base, reference)
		if filepath.IsAbs(reference) {
			p = filepath.Clean(reference)
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
		if filepath.Ext(reference) == "" {
			p2 := p + ".tex"
			if !seen[p2] {
				seen[p2] = true
				out = append(out, p2)
			}
		}
	}

	callingDir := filepath.Dir(callingSource)
	add(callingDir)
	add(f.RootDir)

	dir := callingDir
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		add(parent)
		dir = parent
	}
	return out
}

type osBackend struct{}

func (osBackend) canonicalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return filepath.Clean(abs)
}

func (osBackend) exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (osBackend) read(path string) (string, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

type mapBackend struct {
	files map[string]string
}

func (mapBackend) canonicalize(path string) string {
	return filepath.Clean(path)
}

func (b mapBackend) exists(path string) bool {
	_, ok := b.files[path]
	return ok
}

func (b mapBackend) read(path string) (string, error) {
	return b.files[path], nil
}

// GlobExcludeNames normalizes a caller-supplied list of --ignore glob
// patterns (sorted and de-duplicated) before they reach glob.Compile,
// mirroring the teacher's loader.GlobExcludeName helper that preprocesses
// its own ignore-list flag the same way.
func GlobExcludeNames(patterns []string) []string {
	sorted := append([]string(nil), patterns...)
	sort.Strings(sorted)
	out := sorted[:0]
	var prev string
	for i, p := range sorted {
		if i > 0 && p == prev {
			continue
		}
		out = append(out, p)
		prev = p
	}
	return out
}
