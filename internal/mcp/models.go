package mcp

import (
	"context"

	"github.com/mvp-joe/cratedoc/internal/index"
	"github.com/mvp-joe/cratedoc/internal/search"
)

// DocService is the coordinator surface the MCP tools call into.
type DocService interface {
	CheckStatus(ctx context.Context, projectPath, crateName string) (bool, error)
	Build(ctx context.Context, projectPath, crateName string, skipDeps bool) (string, error)
	ListSymbols(ctx context.Context, projectPath, crateName string) ([]index.Symbol, error)
	Search(ctx context.Context, projectPath, crateName, query string, opts *search.Options) ([]search.Result, error)
	DocPath(ctx context.Context, projectPath, crateName string) (string, bool, error)
	ReadPage(uri string) (string, error)
}

// StatusResponse is the check_doc_status tool result.
type StatusResponse struct {
	Crate string `json:"crate"`
	Built bool   `json:"built"`
}

// BuildResponse is the build_docs tool result.
type BuildResponse struct {
	Crate   string `json:"crate"`
	DocPath string `json:"doc_path"`
}

// SymbolsResponse is the list_symbols tool result.
type SymbolsResponse struct {
	Symbols []index.Symbol `json:"symbols"`
	Total   int            `json:"total"`
}

// SearchResponse is the search_docs tool result.
type SearchResponse struct {
	Results []search.Result `json:"results"`
	Total   int             `json:"total"`
}

// DocPathResponse is the get_doc_path tool result.
type DocPathResponse struct {
	Crate   string `json:"crate"`
	DocPath string `json:"doc_path"`
	Built   bool   `json:"built"`
}
