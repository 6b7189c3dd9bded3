package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/penmark/internal/adapters/driving/mcp"
	"github.com/custodia-labs/penmark/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can analyse
texts, compare them with baselines and assign batches.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.
Use --metrics-port to expose Prometheus metrics while serving.

Examples:
  # Stdio mode (default)
  penmark mcp serve

  # HTTP mode with metrics
  penmark mcp serve --port 8080 --metrics-port 9090`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Int("metrics-port", 0, "Port for the /metrics endpoint (0 = disabled)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	metricsPort, err := cmd.Flags().GetInt("metrics-port")
	if err != nil {
		return fmt.Errorf("getting metrics-port flag: %w", err)
	}

	ports := &mcp.Ports{
		Analysis:   analysisService,
		Baseline:   baselineService,
		Assignment: assignmentService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if metricsPort > 0 {
		if metricsHandler == nil {
			return errors.New("metrics not configured")
		}
		stop := serveMetrics(fmt.Sprintf(":%d", metricsPort))
		defer stop()
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		cmd.PrintErrf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}

// serveMetrics starts the metrics endpoint and returns a function that
// shuts it down.
func serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metricsHandler)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics listening on %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
