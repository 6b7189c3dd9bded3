package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/penmark/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// shutdownTimeout bounds how long RunHTTP waits for in-flight requests.
const shutdownTimeout = 5 * time.Second

// Server exposes penmark's drift detection and batch assignment over MCP.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates an MCP server for the given ports. Tools backed by a
// nil optional port stay registered and report ErrServiceUnavailable.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "penmark",
		Title:   "Penmark authorship drift detection",
		Version: Version,
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(impl, &mcp.ServerOptions{
			Instructions: instructions(ports),
		}),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// instructions tells clients which workflows this server can serve.
func instructions(ports *Ports) string {
	var b strings.Builder
	b.WriteString("Penmark measures writing style and detects authorship drift. ")
	b.WriteString("Use analyze_text to get vocabulary, style and readability metrics for a text.")

	if ports.Baseline != nil {
		b.WriteString(" Use build_baseline with at least three essays per author, then ")
		b.WriteString("compare_to_baseline to grade a new text against that author's profile. ")
		b.WriteString("Stored profiles are listed at penmark://baselines.")
	}
	if ports.Assignment != nil {
		b.WriteString(" Use assign_batch to match unnamed scanned documents to a class roster; ")
		b.WriteString("documents below the similarity threshold come back unassigned for review. ")
		b.WriteString("Past batches are readable at penmark://batches/{batchId}.")
	}
	return b.String()
}

// Run serves MCP over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves MCP over streamable HTTP on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp: shutdown: %v", err)
		}
	}()

	logger.Info("mcp: listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("mcp http server: %w", err)
	}
	return nil
}
