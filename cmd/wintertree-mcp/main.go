package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"wintertree/internal/adapters/filesystem"
	mcpadapter "wintertree/internal/adapters/mcp"
	"wintertree/internal/adapters/sqlite"
	"wintertree/internal/config"
	"wintertree/internal/ports"
)

func main() {
	scanFlag := flag.String("scan-dir", config.ScanDir(), "path to the scan output directory")
	flag.Parse()

	store := filesystem.NewStore(*scanFlag)

	// The index is optional: query tools degrade gracefully without it.
	var index ports.ConceptIndex
	sqlIndex := sqlite.NewIndex()
	if err := sqlIndex.Open(*scanFlag); err == nil {
		index = sqlIndex
		defer sqlIndex.Close()
	}

	mcpServer := server.NewMCPServer(
		"wintertree-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, store, store, index)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("wintertree-mcp: %v", err)
	}
}
