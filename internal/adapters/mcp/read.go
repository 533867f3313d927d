package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"browsetree/internal/application"
	"browsetree/internal/application/commands"
	"browsetree/internal/browsing"
	"browsetree/internal/ports"
)

// Deps are the stores the tools work on
type Deps struct {
	Trees  ports.TreeRepository
	Links  ports.LinkStore
	Env    browsing.Env
	Clock  ports.Clock
	Logger *slog.Logger
}

func (d Deps) now() time.Time {
	if d.Clock == nil {
		return time.Now()
	}
	return d.Clock.Now()
}

// RegisterReadTools adds all read-only browsing tree tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, deps Deps) {
	s.AddTool(listTreesTool(), listTreesHandler(deps))
	s.AddTool(showTreeTool(), showTreeHandler(deps))
	s.AddTool(rankLinksTool(), rankLinksHandler(deps))
	s.AddTool(linkScoreTool(), linkScoreHandler(deps))
	s.AddTool(searchLinksTool(), searchLinksHandler(deps))
	s.AddTool(exportTreeTool(), exportTreeHandler(deps))
}

// --- list_trees ---

func listTreesTool() mcp.Tool {
	return mcp.NewTool("list_trees",
		mcp.WithDescription("List stored browsing trees, newest first, with their origin and node count."),
	)
}

func listTreesHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summaries, err := commands.NewListTreesCommand(deps.Trees).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(summaries, formatSummary)
	}
}

// --- show_tree ---

func showTreeTool() mcp.Tool {
	return mcp.NewTool("show_tree",
		mcp.WithDescription("Display a browsing tree as an outline. The current page is marked with '*'."),
		mcp.WithString("id",
			mcp.Description("Tree ID (UUID) as returned by list_trees"),
			mcp.Required(),
		),
	)
}

func showTreeHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tree, err := commands.NewShowTreeCommand(deps.Trees, deps.Env, req.GetString("id", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		if err := commands.FormatTree(&sb, tree, deps.Links); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- rank_links ---

func rankLinksTool() mcp.Tool {
	return mcp.NewTool("rank_links",
		mcp.WithDescription("Rank links across all trees. 'show' lists the most engaging pages first; 'evict' lists the best candidates for removal first (closed pages, then lowest decayed score)."),
		mcp.WithString("mode",
			mcp.Description("Ranking mode"),
			mcp.Enum(string(commands.ModeShow), string(commands.ModeEvict)),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of links to return (default 20, 0 for all)"),
		),
	)
}

func rankLinksHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		mode, err := commands.ParseRankMode(req.GetString("mode", ""))
		if err != nil {
			return toolError(err)
		}

		cmd := commands.NewRankLinksCommand(deps.Trees, deps.Links, deps.Logger, mode, req.GetInt("limit", 20), deps.now())
		ranked, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(ranked, formatRanked)
	}
}

// --- link_score ---

func linkScoreTool() mcp.Tool {
	return mcp.NewTool("link_score",
		mcp.WithDescription("Show the score of one URL aggregated across every tree it appears in."),
		mcp.WithString("url",
			mcp.Description("Page URL"),
			mcp.Required(),
		),
	)
}

func linkScoreHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ls, err := commands.NewLinkScoreCommand(deps.Trees, deps.Logger, req.GetString("url", ""), deps.now()).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		s := ls.Score
		var sb strings.Builder
		fmt.Fprintf(&sb, "url: %s\nlink: %s\ntrees: %d\n", ls.URL, ls.Link, ls.Trees)
		fmt.Fprintf(&sb, "visits: %d\nreading time: %s\n", s.VisitCount, commands.FormatSeconds(s.ReadingTimeToLastEvent))
		fmt.Fprintf(&sb, "clustering: %.3f\nremoval: %.3f\nclosed: %t\n", ls.Clustering, ls.Removal, s.IsClosed())
		if s.LastCreationDate != nil {
			fmt.Fprintf(&sb, "last opened: %s\n", s.LastCreationDate.Format(time.RFC3339))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- search_links ---

func searchLinksTool() mcp.Tool {
	return mcp.NewTool("search_links",
		mcp.WithDescription("Fuzzy search the URLs and titles of pages in stored trees."),
		mcp.WithString("query",
			mcp.Description("Search query (at least 2 characters)"),
			mcp.Required(),
		),
	)
}

func searchLinksHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return toolError(fmt.Errorf("query is required"))
		}

		results, err := commands.NewSearchLinksCommand(deps.Trees, deps.Links, deps.Logger, query).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(results) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}

		var sb strings.Builder
		for _, r := range results {
			fmt.Fprintf(&sb, "%s  %s  (%d trees)\n", r.URL, r.Title, r.Trees)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- export_tree ---

func exportTreeTool() mcp.Tool {
	return mcp.NewTool("export_tree",
		mcp.WithDescription("Export a tree as JSON, nested or flattened."),
		mcp.WithString("id",
			mcp.Description("Tree ID (UUID)"),
			mcp.Required(),
		),
		mcp.WithString("format",
			mcp.Description("Document layout"),
			mcp.Enum(string(commands.FormatNested), string(commands.FormatFlat)),
		),
		mcp.WithBoolean("anonymize",
			mcp.Description("Drop free text such as search queries from the origin"),
		),
	)
}

func exportTreeHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		format := commands.ExportFormat(req.GetString("format", string(commands.FormatNested)))
		cmd := commands.NewExportTreeCommand(deps.Trees, deps.Env, req.GetString("id", ""), format, req.GetBool("anonymize", false))
		data, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatSummary(s application.TreeSummary) string {
	pinned := ""
	if s.IsPinned {
		pinned = "  pinned"
	}
	return fmt.Sprintf("%s  %s  %s  %d nodes%s", s.ID, s.CreatedAt.Format(time.RFC3339), s.Origin, s.NodeCount, pinned)
}

func formatRanked(r commands.RankedLink) string {
	label := r.URL
	if label == "" {
		label = r.Link.String()
	}
	state := "open"
	if r.Closed {
		state = "closed"
	}
	return fmt.Sprintf("%10.3f  %-6s  %s", r.Value, state, label)
}
