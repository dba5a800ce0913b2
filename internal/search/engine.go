// Package search runs keyword queries over a generated documentation tree.
//
// Matching is plain case-insensitive substring containment over full file
// content. There is no tokenization and no ranking: result order is the
// lexicographic title sort and nothing else.
package search

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/cratedoc/internal/docuri"
	"github.com/mvp-joe/cratedoc/internal/index"
)

// Result is one search hit, produced per-request.
type Result struct {
	Title   string `json:"title"`             // fully-qualified path, or bare filename for non-symbol pages
	URI     string `json:"uri"`               // rustdoc:// reference to the matched file
	Snippet string `json:"snippet,omitempty"` // first matching line, best-effort
	Version string `json:"version,omitempty"`
}

// Options controls a single search.
type Options struct {
	// Limit caps the number of collected matches. Zero means no limit.
	Limit int
}

// errLimitReached stops the walk early once enough matches are collected.
var errLimitReached = errors.New("limit reached")

// contentCacheCapacity bounds the number of file contents kept in memory
// between searches over an unchanged tree.
const contentCacheCapacity = 512

// Engine scans documentation trees with the same traversal and skip rules as
// the symbol indexer.
type Engine struct {
	walker   *index.Walker
	contents otter.Cache[string, string]
}

// NewEngine creates an Engine sharing the indexer's walker.
func NewEngine(walker *index.Walker) (*Engine, error) {
	contents, err := otter.MustBuilder[string, string](contentCacheCapacity).Build()
	if err != nil {
		return nil, fmt.Errorf("building content cache: %w", err)
	}
	return &Engine{walker: walker, contents: contents}, nil
}

// Close releases the content cache.
func (e *Engine) Close() {
	e.contents.Close()
}

// Search walks rootDir and returns every file whose content contains query,
// case-insensitively. Collection stops once opts.Limit matches are found;
// the collected set is then sorted by title.
func (e *Engine) Search(rootDir, crateName, query string, opts *Options) ([]Result, error) {
	if opts == nil {
		opts = &Options{}
	}
	needle := strings.ToLower(query)

	results := []Result{}
	err := e.walker.Walk(rootDir, func(absPath string, modulePath []string, filename string) error {
		content, err := e.readFile(absPath)
		if err != nil {
			return err
		}

		lowered := strings.ToLower(content)
		idx := strings.Index(lowered, needle)
		if idx < 0 {
			return nil
		}

		title := filename
		if _, name, ok := index.ParseFilename(filename); ok {
			title = index.QualifiedPath(crateName, modulePath, name)
		}

		results = append(results, Result{
			Title:   title,
			URI:     docuri.Create(absPath),
			Snippet: snippetAt(content, lowered, idx),
		})

		if opts.Limit > 0 && len(results) >= opts.Limit {
			return errLimitReached
		}
		return nil
	})
	if err != nil && !errors.Is(err, errLimitReached) {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Title < results[j].Title
	})
	return results, nil
}

// readFile returns the file's content, serving repeats from the cache.
// The cache key includes the modification time so a rebuilt tree is re-read.
func (e *Engine) readFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	key := fmt.Sprintf("%s|%d", path, info.ModTime().UnixNano())

	if content, ok := e.contents.Get(key); ok {
		return content, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	content := string(data)
	e.contents.Set(key, content)
	return content, nil
}

// snippetAt extracts the line containing the match at byte offset idx into
// lowered. Offsets into lowered do not transfer to content: lowercasing can
// change a rune's encoded length. Newlines survive the mapping unchanged, so
// the matching line is located by newline count instead.
// Falls back to a literal ellipsis if the line is empty after trimming.
func snippetAt(content, lowered string, idx int) string {
	lineNo := strings.Count(lowered[:idx], "\n")

	line := content
	for i := 0; i < lineNo; i++ {
		_, line, _ = strings.Cut(line, "\n")
	}
	if nl := strings.IndexByte(line, '\n'); nl >= 0 {
		line = line[:nl]
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return "..."
	}
	return line
}
