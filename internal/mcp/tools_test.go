package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/cratedoc/internal/index"
	"github.com/mvp-joe/cratedoc/internal/search"
)

// Test Plan:
// 1. AddDocTools registers without panicking (composability check)
// 2. Missing required arguments produce tool errors, not Go errors
// 3. Happy-path handlers return JSON-encoded responses
// 4. Service errors come back as tool errors with the message preserved
// 5. The search handler applies the default limit when none is given

// stubService is a canned DocService for handler tests.
type stubService struct {
	built   bool
	docPath string
	symbols []index.Symbol
	results []search.Result
	page    string
	err     error

	searchLimit int // records the limit the handler passed down
}

func (s *stubService) CheckStatus(_ context.Context, projectPath, crateName string) (bool, error) {
	return s.built, s.err
}

func (s *stubService) Build(_ context.Context, projectPath, crateName string, skipDeps bool) (string, error) {
	return s.docPath, s.err
}

func (s *stubService) ListSymbols(_ context.Context, projectPath, crateName string) ([]index.Symbol, error) {
	return s.symbols, s.err
}

func (s *stubService) Search(_ context.Context, projectPath, crateName, query string, opts *search.Options) ([]search.Result, error) {
	if opts != nil {
		s.searchLimit = opts.Limit
	}
	return s.results, s.err
}

func (s *stubService) DocPath(_ context.Context, projectPath, crateName string) (string, bool, error) {
	return s.docPath, s.built, s.err
}

func (s *stubService) ReadPage(uri string) (string, error) {
	return s.page, s.err
}

// request builds a CallToolRequest carrying the given arguments.
func request(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

// textOf extracts the text content from a tool result.
func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	tc, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return tc.Text
}

func TestAddDocTools_Registration(t *testing.T) {
	t.Parallel()

	srv := server.NewMCPServer("test", "0.0.0", server.WithToolCapabilities(true))
	require.NotPanics(t, func() {
		AddDocTools(srv, &stubService{}, 50)
	})
}

func TestStatusHandler(t *testing.T) {
	t.Parallel()

	svc := &stubService{built: true}
	handler := newStatusHandler(svc)

	result, err := handler(context.Background(), request(map[string]interface{}{
		"project_path": "/work/app",
		"crate":        "serde",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &resp))
	assert.Equal(t, "serde", resp.Crate)
	assert.True(t, resp.Built)
}

func TestStatusHandler_MissingArgs(t *testing.T) {
	t.Parallel()

	handler := newStatusHandler(&stubService{})

	result, err := handler(context.Background(), request(map[string]interface{}{
		"crate": "serde",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = handler(context.Background(), request(map[string]interface{}{
		"project_path": "/work/app",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestStatusHandler_ServiceError(t *testing.T) {
	t.Parallel()

	svc := &stubService{err: errors.New("invalid project path: no Cargo.toml in /work/app")}
	handler := newStatusHandler(svc)

	result, err := handler(context.Background(), request(map[string]interface{}{
		"project_path": "/work/app",
		"crate":        "serde",
	}))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "no Cargo.toml")
}

func TestBuildHandler(t *testing.T) {
	t.Parallel()

	svc := &stubService{docPath: "/tmp/t/doc/my-crate/index.html"}
	handler := newBuildHandler(svc)

	result, err := handler(context.Background(), request(map[string]interface{}{
		"project_path": "/work/app",
		"crate":        "my-crate",
		"skip_deps":    true,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var resp BuildResponse
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &resp))
	assert.Equal(t, "/tmp/t/doc/my-crate/index.html", resp.DocPath)
}

func TestSymbolsHandler(t *testing.T) {
	t.Parallel()

	svc := &stubService{symbols: []index.Symbol{
		{Name: "Foo", Kind: index.KindStruct, Path: "my-crate::Foo"},
	}}
	handler := newSymbolsHandler(svc)

	result, err := handler(context.Background(), request(map[string]interface{}{
		"project_path": "/work/app",
		"crate":        "my-crate",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var resp SymbolsResponse
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "my-crate::Foo", resp.Symbols[0].Path)
}

func TestSearchHandler_DefaultLimit(t *testing.T) {
	t.Parallel()

	svc := &stubService{}
	handler := newSearchHandler(svc, 25)

	_, err := handler(context.Background(), request(map[string]interface{}{
		"project_path": "/work/app",
		"crate":        "my-crate",
		"query":        "spawn",
	}))
	require.NoError(t, err)
	assert.Equal(t, 25, svc.searchLimit)
}

func TestSearchHandler_ExplicitLimit(t *testing.T) {
	t.Parallel()

	svc := &stubService{results: []search.Result{{Title: "my-crate::Spawner"}}}
	handler := newSearchHandler(svc, 25)

	result, err := handler(context.Background(), request(map[string]interface{}{
		"project_path": "/work/app",
		"crate":        "my-crate",
		"query":        "spawn",
		"limit":        float64(3), // JSON numbers arrive as float64
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, 3, svc.searchLimit)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &resp))
	assert.Equal(t, 1, resp.Total)
}

func TestSearchHandler_MissingQuery(t *testing.T) {
	t.Parallel()

	handler := newSearchHandler(&stubService{}, 25)

	result, err := handler(context.Background(), request(map[string]interface{}{
		"project_path": "/work/app",
		"crate":        "my-crate",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestDocPathHandler(t *testing.T) {
	t.Parallel()

	svc := &stubService{docPath: "/tmp/t/doc/my-crate/index.html", built: true}
	handler := newDocPathHandler(svc)

	result, err := handler(context.Background(), request(map[string]interface{}{
		"project_path": "/work/app",
		"crate":        "my-crate",
	}))
	require.NoError(t, err)

	var resp DocPathResponse
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &resp))
	assert.True(t, resp.Built)
	assert.Equal(t, "/tmp/t/doc/my-crate/index.html", resp.DocPath)
}

func TestReadPageHandler(t *testing.T) {
	t.Parallel()

	svc := &stubService{page: "# Struct Foo"}
	handler := newReadPageHandler(svc)

	result, err := handler(context.Background(), request(map[string]interface{}{
		"uri": "rustdoc:///tmp/t/doc/my-crate/struct.Foo.html",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, "# Struct Foo", textOf(t, result))
}

func TestReadPageHandler_MissingURI(t *testing.T) {
	t.Parallel()

	handler := newReadPageHandler(&stubService{})

	result, err := handler(context.Background(), request(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandler_BadArgumentsFormat(t *testing.T) {
	t.Parallel()

	handler := newStatusHandler(&stubService{})

	var req mcp.CallToolRequest
	req.Params.Arguments = "not a map"

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
