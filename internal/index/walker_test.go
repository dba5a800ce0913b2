package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan:
// 1. Traverse finds symbols at the crate root and in nested modules
// 2. Reserved directories (src, implementors) are skipped at any depth
// 3. Non-symbol files (index.html, all.html) are skipped silently
// 4. Escaped names decode and qualify correctly
// 5. User ignore patterns exclude additional paths
// 6. SortSymbols orders by fully-qualified path

// writeDocTree materializes a fake rustdoc tree from relative paths.
func writeDocTree(t *testing.T, paths ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, p := range paths {
		abs := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0755))
		require.NoError(t, os.WriteFile(abs, []byte("<html></html>"), 0644))
	}
	return root
}

func symbolPaths(symbols []Symbol) []string {
	paths := make([]string, len(symbols))
	for i, s := range symbols {
		paths[i] = s.Path
	}
	return paths
}

func TestWalker_Traverse(t *testing.T) {
	t.Parallel()

	root := writeDocTree(t,
		"index.html",
		"all.html",
		"struct.Foo.html",
		"fn.run.html",
		"io/index.html",
		"io/trait.Reader.html",
		"io/buf/struct.BufReader.html",
	)

	w, err := NewWalker(nil)
	require.NoError(t, err)

	symbols, err := w.Traverse(root, "my-crate")
	require.NoError(t, err)
	SortSymbols(symbols)

	assert.Equal(t, []string{
		"my-crate::Foo",
		"my-crate::io::Reader",
		"my-crate::io::buf::BufReader",
		"my-crate::run",
	}, symbolPaths(symbols))
}

func TestWalker_SkipsReservedDirs(t *testing.T) {
	t.Parallel()

	root := writeDocTree(t,
		"struct.Foo.html",
		"src/struct.Hidden.html",
		"implementors/trait.Hidden.html",
		"nested/src/fn.hidden.html",
		"nested/struct.Bar.html",
	)

	w, err := NewWalker(nil)
	require.NoError(t, err)

	symbols, err := w.Traverse(root, "my-crate")
	require.NoError(t, err)
	SortSymbols(symbols)

	assert.Equal(t, []string{
		"my-crate::Foo",
		"my-crate::nested::Bar",
	}, symbolPaths(symbols))
}

func TestWalker_EscapedNames(t *testing.T) {
	t.Parallel()

	root := writeDocTree(t, "struct.Foo-Bar.html")

	w, err := NewWalker(nil)
	require.NoError(t, err)

	symbols, err := w.Traverse(root, "my-crate")
	require.NoError(t, err)
	require.Len(t, symbols, 1)

	assert.Equal(t, "Foo::Bar", symbols[0].Name)
	assert.Equal(t, KindStruct, symbols[0].Kind)
	assert.Equal(t, "my-crate::Foo::Bar", symbols[0].Path)
	assert.Contains(t, symbols[0].URI, "rustdoc://")
}

func TestWalker_IgnorePatterns(t *testing.T) {
	t.Parallel()

	root := writeDocTree(t,
		"struct.Foo.html",
		"internal/struct.Private.html",
	)

	w, err := NewWalker([]string{"internal/**"})
	require.NoError(t, err)

	symbols, err := w.Traverse(root, "my-crate")
	require.NoError(t, err)

	assert.Equal(t, []string{"my-crate::Foo"}, symbolPaths(symbols))
}

func TestNewWalker_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewWalker([]string{"[unclosed"})
	assert.Error(t, err)
}

func TestWalker_MissingRoot(t *testing.T) {
	t.Parallel()

	w, err := NewWalker(nil)
	require.NoError(t, err)

	_, err = w.Traverse(filepath.Join(t.TempDir(), "nope"), "my-crate")
	assert.Error(t, err)
}

func TestSortSymbols(t *testing.T) {
	t.Parallel()

	symbols := []Symbol{
		{Path: "c::z"},
		{Path: "c::a"},
		{Path: "c::m"},
	}
	SortSymbols(symbols)
	assert.Equal(t, []string{"c::a", "c::m", "c::z"}, symbolPaths(symbols))
}
