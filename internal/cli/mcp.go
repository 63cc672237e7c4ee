package cli

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/mark3labs/specdocs/internal/agent"
	"github.com/mark3labs/specdocs/internal/spec"
)

// MCPConfig captures the inputs for the mcp command.
type MCPConfig struct {
	Input   string
	BaseURL string
}

var mcpRunner = runMCP

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Expose the docs tools to agents over MCP stdio",
		Example: strings.TrimSpace(`  specdocs mcp --input openapi.yaml
  specdocs mcp --input https://petstore3.swagger.io/api/v3/openapi.json`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveMCPConfig(cmd)
			if err != nil {
				return err
			}
			return mcpRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL of the OpenAPI/Swagger document")
	flags.String("base-url", "", "Base URL used in generated examples")

	return cmd
}

func resolveMCPConfig(cmd *cobra.Command) (*MCPConfig, error) {
	cfg := &MCPConfig{}
	flags := cmd.Flags()

	var err error
	if cfg.Input, err = flags.GetString("input"); err != nil {
		return nil, err
	}
	if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Input) == "" {
		return nil, newUsageError("mcp: --input is required")
	}
	return cfg, nil
}

func runMCP(ctx context.Context, cfg *MCPConfig) error {
	// Load eagerly so a bad input fails before the stdio session starts.
	doc, baseURL, err := loadDocument(ctx, cfg.Input, cfg.BaseURL, false)
	if err != nil {
		return err
	}

	s := server.NewMCPServer("specdocs", "1.0.0", server.WithToolCapabilities(true))
	agent.RegisterTools(s, func(context.Context) (*spec.Document, string, error) {
		return doc, baseURL, nil
	})
	return server.ServeStdio(s)
}
