package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/cratedoc/internal/search"
)

// toolHandler aliases the mcp-go tool handler signature.
type toolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// AddDocTools registers every documentation tool with an MCP server.
// Registration is composable; each tool captures the service in its handler.
func AddDocTools(s *server.MCPServer, svc DocService, defaultLimit int) {
	s.AddTool(statusTool(), newStatusHandler(svc))
	s.AddTool(buildTool(), newBuildHandler(svc))
	s.AddTool(symbolsTool(), newSymbolsHandler(svc))
	s.AddTool(searchTool(defaultLimit), newSearchHandler(svc, defaultLimit))
	s.AddTool(docPathTool(), newDocPathHandler(svc))
	s.AddTool(readPageTool(), newReadPageHandler(svc))
}

// stringArg extracts a required string argument from the raw arguments map.
func stringArg(args map[string]interface{}, name string) (string, bool) {
	v, ok := args[name].(string)
	return v, ok && v != ""
}

// requestArgs coerces the MCP request arguments into a map.
func requestArgs(request mcp.CallToolRequest) (map[string]interface{}, bool) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	return args, ok
}

// projectCrateArgs extracts the two arguments shared by most tools.
func projectCrateArgs(request mcp.CallToolRequest) (projectPath, crate string, errResult *mcp.CallToolResult) {
	args, ok := requestArgs(request)
	if !ok {
		return "", "", mcp.NewToolResultError("invalid arguments format")
	}
	projectPath, ok = stringArg(args, "project_path")
	if !ok {
		return "", "", mcp.NewToolResultError("project_path parameter is required")
	}
	crate, ok = stringArg(args, "crate")
	if !ok {
		return "", "", mcp.NewToolResultError("crate parameter is required")
	}
	return projectPath, crate, nil
}

// jsonResult marshals a response and returns it as a text result
// (mcp-go convention).
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func statusTool() mcp.Tool {
	return mcp.NewTool(
		"check_doc_status",
		mcp.WithDescription("Check whether locally generated documentation exists for a Rust crate. Answers from a 24-hour cache when possible."),
		mcp.WithString("project_path",
			mcp.Required(),
			mcp.Description("Absolute path to the Cargo project root (the directory containing Cargo.toml)")),
		mcp.WithString("crate",
			mcp.Required(),
			mcp.Description("Crate name, e.g. 'serde'")),
	)
}

func newStatusHandler(svc DocService) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectPath, crate, errResult := projectCrateArgs(request)
		if errResult != nil {
			return errResult, nil
		}

		built, err := svc.CheckStatus(ctx, projectPath, crate)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(&StatusResponse{Crate: crate, Built: built})
	}
}

func buildTool() mcp.Tool {
	return mcp.NewTool(
		"build_docs",
		mcp.WithDescription("Generate documentation for a Rust crate with cargo doc. Dependency docs are always excluded."),
		mcp.WithString("project_path",
			mcp.Required(),
			mcp.Description("Absolute path to the Cargo project root")),
		mcp.WithString("crate",
			mcp.Required(),
			mcp.Description("Crate name to document")),
		mcp.WithBoolean("skip_deps",
			mcp.Description("Accepted for compatibility; dependency docs are excluded regardless")),
	)
}

func newBuildHandler(svc DocService) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectPath, crate, errResult := projectCrateArgs(request)
		if errResult != nil {
			return errResult, nil
		}
		args, _ := requestArgs(request)
		skipDeps, _ := args["skip_deps"].(bool)

		docPath, err := svc.Build(ctx, projectPath, crate, skipDeps)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(&BuildResponse{Crate: crate, DocPath: docPath})
	}
}

func symbolsTool() mcp.Tool {
	return mcp.NewTool(
		"list_symbols",
		mcp.WithDescription("List every documented symbol in a crate (structs, enums, traits, functions, constants, type aliases, macros, modules), sorted by fully-qualified path. Requires built documentation."),
		mcp.WithString("project_path",
			mcp.Required(),
			mcp.Description("Absolute path to the Cargo project root")),
		mcp.WithString("crate",
			mcp.Required(),
			mcp.Description("Crate name")),
	)
}

func newSymbolsHandler(svc DocService) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectPath, crate, errResult := projectCrateArgs(request)
		if errResult != nil {
			return errResult, nil
		}

		symbols, err := svc.ListSymbols(ctx, projectPath, crate)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(&SymbolsResponse{Symbols: symbols, Total: len(symbols)})
	}
}

func searchTool(defaultLimit int) mcp.Tool {
	return mcp.NewTool(
		"search_docs",
		mcp.WithDescription("Search a crate's generated documentation with case-insensitive substring matching. Results are sorted by title. Requires built documentation."),
		mcp.WithString("project_path",
			mcp.Required(),
			mcp.Description("Absolute path to the Cargo project root")),
		mcp.WithString("crate",
			mcp.Required(),
			mcp.Description("Crate name")),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Substring to look for, matched case-insensitively against page content")),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum number of results (default: %d, 0 collects all matches)", defaultLimit))),
	)
}

func newSearchHandler(svc DocService, defaultLimit int) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectPath, crate, errResult := projectCrateArgs(request)
		if errResult != nil {
			return errResult, nil
		}
		args, _ := requestArgs(request)

		query, ok := stringArg(args, "query")
		if !ok {
			return mcp.NewToolResultError("query parameter is required"), nil
		}

		limit := defaultLimit
		if v, ok := args["limit"].(float64); ok {
			limit = int(v)
		}

		results, err := svc.Search(ctx, projectPath, crate, query, &search.Options{Limit: limit})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(&SearchResponse{Results: results, Total: len(results)})
	}
}

func docPathTool() mcp.Tool {
	return mcp.NewTool(
		"get_doc_path",
		mcp.WithDescription("Return the entry-point file path of a crate's generated documentation together with its build status."),
		mcp.WithString("project_path",
			mcp.Required(),
			mcp.Description("Absolute path to the Cargo project root")),
		mcp.WithString("crate",
			mcp.Required(),
			mcp.Description("Crate name")),
	)
}

func newDocPathHandler(svc DocService) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectPath, crate, errResult := projectCrateArgs(request)
		if errResult != nil {
			return errResult, nil
		}

		docPath, built, err := svc.DocPath(ctx, projectPath, crate)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(&DocPathResponse{Crate: crate, DocPath: docPath, Built: built})
	}
}

func readPageTool() mcp.Tool {
	return mcp.NewTool(
		"read_doc_page",
		mcp.WithDescription("Fetch one documentation page by its rustdoc:// URI (as returned by list_symbols or search_docs) rendered as Markdown."),
		mcp.WithString("uri",
			mcp.Required(),
			mcp.Description("rustdoc:// URI of the page to read")),
	)
}

func newReadPageHandler(svc DocService) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := requestArgs(request)
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}
		uri, ok := stringArg(args, "uri")
		if !ok {
			return mcp.NewToolResultError("uri parameter is required"), nil
		}

		md, err := svc.ReadPage(uri)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		// Markdown goes back as-is, not wrapped in JSON.
		return mcp.NewToolResultText(md), nil
	}
}
