// Package catalog provides an MCP server exposing the command registry.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bmad-ai/bmadhub/internal/registry"
)

// NewServer creates a new MCP server backed by the given registry.
func NewServer(reg *registry.Registry) *server.MCPServer {
	s := server.NewMCPServer(
		"bmad-catalog",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	listTool := mcp.NewTool("list_commands",
		mcp.WithDescription("Lists registered commands, optionally filtered by category or module"),
		mcp.WithString("category",
			mcp.Description("Filter by category: workflow, agent, task, tool or core"),
		),
		mcp.WithString("module",
			mcp.Description("Filter by owning module, e.g. bmm"),
		),
	)
	s.AddTool(listTool, listHandler(reg))

	resolveTool := mcp.NewTool("resolve_command",
		mcp.WithDescription("Resolves a command by its external name, e.g. bmad-bmm-create-prd"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("External command name"),
		),
	)
	s.AddTool(resolveTool, resolveHandler(reg))

	searchTool := mcp.NewTool("search_commands",
		mcp.WithDescription("Searches command names and descriptions for a case-insensitive substring"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Substring to search for"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results, default 10"),
		),
	)
	s.AddTool(searchTool, searchHandler(reg))

	return s
}

// listHandler handles the list_commands tool call.
func listHandler(reg *registry.Registry) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		category, _ := args["category"].(string)
		module, _ := args["module"].(string)

		commands := reg.List(category, module)
		return jsonResult(commands)
	}
}

// resolveHandler handles the resolve_command tool call.
func resolveHandler(reg *registry.Registry) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		name, _ := args["name"].(string)
		if name == "" {
			return mcp.NewToolResultError("name argument is required"), nil
		}

		cmd, ok := reg.Resolve(name)
		if !ok {
			if names := reg.Suggest(name, 0); len(names) > 0 {
				return mcp.NewToolResultError(fmt.Sprintf("command %q not found; did you mean: %s", name, strings.Join(names, ", "))), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("command %q not found", name)), nil
		}

		return jsonResult(cmd)
	}
}

// searchHandler handles the search_commands tool call.
func searchHandler(reg *registry.Registry) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		query, _ := args["query"].(string)
		if query == "" {
			return mcp.NewToolResultError("query argument is required"), nil
		}

		limit := 0
		if n, ok := args["limit"].(float64); ok {
			limit = int(n)
		}

		results := reg.Search(query, limit)
		return jsonResult(results)
	}
}

// jsonResult marshals v as an indented text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
