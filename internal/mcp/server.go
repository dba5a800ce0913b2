package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/cratedoc/internal/docs"
)

// Server manages the MCP server lifecycle.
type Server struct {
	service *docs.Service
	watcher *DocWatcher
	mcp     *server.MCPServer
}

// NewServer creates an MCP server over the documentation service.
// defaultLimit caps search results when a request carries no limit.
func NewServer(service *docs.Service, defaultLimit int) (*Server, error) {
	mcpServer := server.NewMCPServer(
		"cratedoc",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	AddDocTools(mcpServer, service, defaultLimit)

	watcher, err := NewDocWatcher(service)
	if err != nil {
		return nil, fmt.Errorf("failed to create doc watcher: %w", err)
	}

	// Resolved doc directories feed the watcher for change-driven
	// invalidation.
	service.DocDirHook = watcher.WatchDocDir

	return &Server{
		service: service,
		watcher: watcher,
		mcp:     mcpServer,
	}, nil
}

// Serve starts the stdio MCP server and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	s.watcher.Start()
	defer s.watcher.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		cancel()
		return nil
	case err := <-errCh:
		cancel()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases all resources.
func (s *Server) Close() {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	if s.service != nil {
		s.service.Close()
	}
}
