package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"wintertree/internal/application/commands"
	"wintertree/internal/ports"
)

// RegisterReadTools adds all read-only scan tools to the MCP server. The
// concept index may be nil, in which case the query tools report that the
// index is unavailable.
func RegisterReadTools(s *server.MCPServer, trees ports.TreeStore, artifacts ports.ArtifactStore, index ports.ConceptIndex) {
	s.AddTool(statusTool(), statusHandler(trees))
	s.AddTool(chunkMetaTool(), chunkMetaHandler(artifacts))
	s.AddTool(searchConceptsTool(), searchConceptsHandler(index))
	s.AddTool(conceptBirthsTool(), conceptBirthsHandler(index))
}

// --- status ---

func statusTool() mcp.Tool {
	return mcp.NewTool("status",
		mcp.WithDescription("Report scan progress: chunks done, papers scanned, busiest periods, and the next pending chunk."),
	)
}

func statusHandler(trees ports.TreeStore) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewStatusCommand(trees).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- chunk_meta ---

func chunkMetaTool() mcp.Tool {
	return mcp.NewTool("chunk_meta",
		mcp.WithDescription("Read the metadata summary of one completed chunk."),
		mcp.WithNumber("id",
			mcp.Description("Chunk sequence number (1-based)"),
			mcp.Required(),
		),
	)
}

func chunkMetaHandler(artifacts ports.ArtifactStore) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetInt("id", 0)
		if id <= 0 {
			return toolError(fmt.Errorf("id must be a positive chunk number"))
		}

		meta, err := artifacts.ReadMeta(id)
		if err != nil {
			return toolError(fmt.Errorf("no committed artifacts for chunk %d: %w", id, err))
		}

		data, err := json.MarshalIndent(meta, "", "  ")
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

// --- search_concepts ---

func searchConceptsTool() mcp.Tool {
	return mcp.NewTool("search_concepts",
		mcp.WithDescription("Search the concept index by name substring or exact OpenAlex ID."),
		mcp.WithString("query",
			mcp.Description("Search query"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default 20)"),
		),
	)
}

func searchConceptsHandler(index ports.ConceptIndex) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if index == nil {
			return toolError(fmt.Errorf("concept index unavailable"))
		}

		query := req.GetString("query", "")
		limit := req.GetInt("limit", 20)

		result, err := commands.NewSearchConceptsCommand(index, query, limit).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- concept_births ---

func conceptBirthsTool() mcp.Tool {
	return mcp.NewTool("concept_births",
		mcp.WithDescription("List concepts whose earliest recorded activity falls inside a year range."),
		mcp.WithNumber("from_year",
			mcp.Description("Range start year, inclusive"),
			mcp.Required(),
		),
		mcp.WithNumber("to_year",
			mcp.Description("Range end year, inclusive"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default 50)"),
		),
	)
}

func conceptBirthsHandler(index ports.ConceptIndex) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if index == nil {
			return toolError(fmt.Errorf("concept index unavailable"))
		}

		from := req.GetInt("from_year", 0)
		to := req.GetInt("to_year", 0)
		limit := req.GetInt("limit", 50)

		result, err := commands.NewBirthsBetweenCommand(index, from, to, limit).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(result.Hits) == 0 {
			return mcp.NewToolResultText("No concepts born in that range."), nil
		}

		var sb strings.Builder
		for _, h := range result.Hits {
			fmt.Fprintf(&sb, "%6d  %s  born %s\n", h.Concept.Idx, h.Concept.Name, h.Birth)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
