package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/cratedoc/internal/cache"
	"github.com/mvp-joe/cratedoc/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for crate documentation",
	Long: `Start the Model Context Protocol (MCP) server that lets LLM-powered coding
assistants build, inspect and search locally generated crate documentation.

The MCP server:
- Answers build-status checks from the 24-hour artifact cache
- Runs cargo doc builds on request
- Lists symbols and searches generated documentation trees
- Renders individual pages as Markdown
- Communicates via stdio (standard MCP transport)

Example:
  cratedoc mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	svc, cfg, err := newService()
	if err != nil {
		return err
	}

	cachePath := cfg.Cache.Path
	if cachePath == "" {
		cachePath = cache.DefaultPath()
	}
	fmt.Fprintf(os.Stderr, "cratedoc MCP Server\n")
	fmt.Fprintf(os.Stderr, "Cache File: %s\n\n", cachePath)

	server, err := mcp.NewServer(svc, cfg.Search.DefaultLimit)
	if err != nil {
		svc.Close()
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	if err := server.Serve(ctx); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
