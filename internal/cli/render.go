package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/specdocs/internal/render"
)

// RenderConfig captures the inputs for the render command.
type RenderConfig struct {
	Input   string
	Out     string
	BaseURL string
	Format  string
	Strict  bool
}

var renderRunner = runRender

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a document as a static reference page or agent data feed",
		Example: strings.TrimSpace(`  specdocs render --input openapi.yaml --out reference.html
  specdocs render --input https://petstore3.swagger.io/api/v3/openapi.json --format json`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveRenderConfig(cmd)
			if err != nil {
				return err
			}
			return renderRunner(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL of the OpenAPI/Swagger document")
	flags.String("out", "", "Output file (stdout when omitted)")
	flags.String("base-url", "", "Base URL shown in examples (derived from input URL when omitted)")
	flags.String("format", "html", "Output format (html|json)")
	flags.Bool("strict", false, "Fail on schema validation errors instead of continuing")

	return cmd
}

func resolveRenderConfig(cmd *cobra.Command) (*RenderConfig, error) {
	cfg := &RenderConfig{}
	flags := cmd.Flags()

	var err error
	if cfg.Input, err = flags.GetString("input"); err != nil {
		return nil, err
	}
	if cfg.Out, err = flags.GetString("out"); err != nil {
		return nil, err
	}
	if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
		return nil, err
	}
	if cfg.Format, err = flags.GetString("format"); err != nil {
		return nil, err
	}
	if cfg.Strict, err = flags.GetBool("strict"); err != nil {
		return nil, err
	}

	cfg.Input = strings.TrimSpace(cfg.Input)
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	switch cfg.Format {
	case "", "html":
		cfg.Format = "html"
	case "json":
	default:
		return nil, newUsageError(fmt.Sprintf("render: unsupported --format %q (allowed: html, json)", cfg.Format))
	}
	return cfg, nil
}

func runRender(ctx context.Context, cfg *RenderConfig, stdout io.Writer) error {
	doc, baseURL, err := loadDocument(ctx, cfg.Input, cfg.BaseURL, cfg.Strict)
	if err != nil {
		return err
	}

	out := stdout
	if cfg.Out != "" && cfg.Out != "-" {
		f, err := os.Create(cfg.Out)
		if err != nil {
			return fmt.Errorf("create %s: %w", cfg.Out, err)
		}
		defer f.Close()
		out = f
	}

	if cfg.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(render.BuildData(doc, baseURL))
	}
	return render.WriteHTML(out, doc, baseURL)
}
