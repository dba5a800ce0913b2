package index

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/mvp-joe/cratedoc/internal/docuri"
)

// reservedDirs are generator-owned directories that never contain symbol
// pages: the source mirror and the trait-implementor index. They are skipped
// at every nesting level.
var reservedDirs = map[string]bool{
	"src":          true,
	"implementors": true,
}

// compiledPattern holds both the pattern string and compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// VisitFunc is called for every candidate documentation file.
// modulePath holds the directory segments below the traversal root.
type VisitFunc func(absPath string, modulePath []string, filename string) error

// Walker traverses a generated documentation tree, applying the reserved-dir
// skip rules plus any user-configured ignore patterns.
type Walker struct {
	ignorePatterns []compiledPattern
}

// NewWalker creates a Walker. ignorePatterns are slash-separated globs
// matched against paths relative to the traversal root; they extend (never
// replace) the hardcoded reserved-dir skips.
func NewWalker(ignorePatterns []string) (*Walker, error) {
	w := &Walker{}
	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		w.ignorePatterns = append(w.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}
	return w, nil
}

// Walk calls fn for every documentation file under rootDir, in
// directory-entry order as reported by the filesystem. Callers needing
// deterministic order must sort what they collect.
func (w *Walker) Walk(rootDir string, fn VisitFunc) error {
	return w.walk(rootDir, nil, fn)
}

func (w *Walker) walk(dir string, modulePath []string, fn VisitFunc) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		rel := strings.Join(append(append([]string{}, modulePath...), name), "/")

		if entry.IsDir() {
			if reservedDirs[name] || w.ignored(rel) {
				continue
			}
			// Copy before extending: sibling recursions must not share a
			// backing array.
			child := append(append([]string{}, modulePath...), name)
			if err := w.walk(filepath.Join(dir, name), child, fn); err != nil {
				return err
			}
			continue
		}

		// Candidate files end in the doc extension and are not the
		// directory's own entry-point page.
		if !strings.HasSuffix(name, docExt) || name == entryPointFile {
			continue
		}
		if w.ignored(rel) {
			continue
		}

		if err := fn(filepath.Join(dir, name), modulePath, name); err != nil {
			return err
		}
	}

	return nil
}

func (w *Walker) ignored(rel string) bool {
	for _, p := range w.ignorePatterns {
		if p.glob.Match(rel) {
			return true
		}
	}
	return false
}

// Traverse walks rootDir and returns every symbol whose filename matches the
// <kind>.<name>.html grammar. Non-matching files are silently skipped.
// The result is unsorted; SortSymbols gives the stable public ordering.
func (w *Walker) Traverse(rootDir, crateName string) ([]Symbol, error) {
	symbols := []Symbol{}
	err := w.Walk(rootDir, func(absPath string, modulePath []string, filename string) error {
		kind, name, ok := ParseFilename(filename)
		if !ok {
			return nil
		}
		symbols = append(symbols, Symbol{
			Name: name,
			Kind: kind,
			Path: QualifiedPath(crateName, modulePath, name),
			URI:  docuri.Create(absPath),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return symbols, nil
}

// SortSymbols orders symbols by fully-qualified path. The public listing
// operation applies this unconditionally so output is stable across calls.
func SortSymbols(symbols []Symbol) {
	sort.Slice(symbols, func(i, j int) bool {
		return symbols[i].Path < symbols[j].Path
	})
}
