package agent

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mark3labs/specdocs/internal/spec"
)

// DocSource supplies the document and base URL the tools operate on. The MCP
// command captures a loaded document; servers may re-fetch per call.
type DocSource func(ctx context.Context) (*spec.Document, string, error)

// RegisterTools registers the three reference tools on an MCP server.
func RegisterTools(s *server.MCPServer, source DocSource) {
	s.AddTool(
		mcp.NewTool("get_api_overview",
			mcp.WithDescription("Get the full API overview: title, version, description, and list of endpoints by tag."),
			mcp.WithString("tags", mcp.Description("Optional comma-separated tag names to limit the overview")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			doc, _, err := source(ctx)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			var filter []string
			for _, t := range strings.Split(mcp.ParseString(req, "tags", ""), ",") {
				if t = strings.TrimSpace(t); t != "" {
					filter = append(filter, t)
				}
			}
			return mcp.NewToolResultText(Overview(doc, filter)), nil
		},
	)

	s.AddTool(
		mcp.NewTool("get_endpoint_details",
			mcp.WithDescription("Get details for a specific endpoint: parameters, request body, responses."),
			mcp.WithString("path", mcp.Required(), mcp.Description("API path, e.g. /users")),
			mcp.WithString("method", mcp.Description("HTTP method (defaults to GET)")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			doc, _, err := source(ctx)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			path := mcp.ParseString(req, "path", "")
			method := mcp.ParseString(req, "method", "GET")
			return mcp.NewToolResultText(EndpointDetails(doc, path, method)), nil
		},
	)

	s.AddTool(
		mcp.NewTool("generate_code_example",
			mcp.WithDescription("Generate a frontend/mobile code example for an endpoint in a given stack (e.g. react-fetch, vue3, nextjs, flutter)."),
			mcp.WithString("path", mcp.Required(), mcp.Description("API path")),
			mcp.WithString("method", mcp.Required(), mcp.Description("GET, POST, etc.")),
			mcp.WithString("stack", mcp.Required(), mcp.Description("Stack: react-fetch, react-axios, vue3, nextjs, angular, svelte, vanilla, react-native, flutter, swift-ios, kotlin-android")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			doc, baseURL, err := source(ctx)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			path := mcp.ParseString(req, "path", "")
			method := mcp.ParseString(req, "method", "GET")
			stack := mcp.ParseString(req, "stack", "react-fetch")
			return mcp.NewToolResultText(CodeExample(doc, baseURL, path, method, stack)), nil
		},
	)
}
