package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"browsetree/internal/adapters/clock"
	"browsetree/internal/application/commands"
)

// RegisterWriteTools adds the tools that create or remove trees.
func RegisterWriteTools(s *server.MCPServer, deps Deps) {
	s.AddTool(importHistoryTool(), importHistoryHandler(deps))
	s.AddTool(replayTool(), replayHandler(deps))
	s.AddTool(deleteTreeTool(), deleteTreeHandler(deps))
}

// --- import_history ---

func importHistoryTool() mcp.Tool {
	return mcp.NewTool("import_history",
		mcp.WithDescription("Import browser history as a new tree whose root holds one child per visited page."),
		mcp.WithString("source",
			mcp.Description("Browser the history comes from"),
			mcp.Enum("chrome", "firefox", "safari", "brave", "edge", "arc"),
			mcp.Required(),
		),
		mcp.WithString("entries",
			mcp.Description(`JSON array of visits: [{"url": "...", "title": "...", "visitedAt": "RFC 3339 time"}]`),
			mcp.Required(),
		),
	)
}

func importHistoryHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var entries []commands.HistoryEntry
		if err := json.Unmarshal([]byte(req.GetString("entries", "")), &entries); err != nil {
			return toolError(fmt.Errorf("decoding entries: %w", err))
		}

		cmd := commands.NewImportHistoryCommand(deps.Trees, deps.Env, req.GetString("source", ""), entries)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s\ntree: %s", result.Message, result.TreeID)), nil
	}
}

// --- replay ---

func replayTool() mcp.Tool {
	return mcp.NewTool("replay",
		mcp.WithDescription("Replay a scripted browsing session with explicit timestamps and store the resulting tree."),
		mcp.WithString("script",
			mcp.Description(`JSON script: {"origin": {"type": "searchBar", "query": "..."}, "start": "RFC 3339 time", "steps": [{"action": "navigate", "at": "...", "url": "...", "startReading": true}]}`),
			mcp.Required(),
		),
	)
}

func replayHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var script commands.Script
		if err := json.Unmarshal([]byte(req.GetString("script", "")), &script); err != nil {
			return toolError(fmt.Errorf("decoding script: %w", err))
		}

		cmd := commands.NewReplayCommand(deps.Trees, deps.Env, clock.NewManual(time.Time{}), script)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Replayed tree %s: %d nodes, %d scored links, current %s",
			result.TreeID, result.Nodes, result.Scored, result.Current)), nil
	}
}

// --- delete_tree ---

func deleteTreeTool() mcp.Tool {
	return mcp.NewTool("delete_tree",
		mcp.WithDescription("Delete a stored tree."),
		mcp.WithString("id",
			mcp.Description("Tree ID (UUID)"),
			mcp.Required(),
		),
	)
}

func deleteTreeHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		if err := commands.NewDeleteTreeCommand(deps.Trees, id).Execute(ctx); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Deleted tree %s", id)), nil
	}
}
