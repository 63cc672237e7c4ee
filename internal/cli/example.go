package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/specdocs/internal/codegen"
	"github.com/mark3labs/specdocs/internal/spec"
)

// ExampleConfig captures the inputs for the example command.
type ExampleConfig struct {
	Input   string
	Path    string
	Method  string
	Stack   string
	BaseURL string
}

var exampleRunner = runExample

func newExampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print a code example for one operation",
		Example: strings.TrimSpace(`  specdocs example --input openapi.yaml --path /pets --method get --stack react-fetch
  specdocs example --input openapi.yaml --path /pets --method post --stack flutter --base-url https://api.example.com`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveExampleConfig(cmd)
			if err != nil {
				return err
			}
			return exampleRunner(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL of the OpenAPI/Swagger document")
	flags.String("path", "", "Operation path, e.g. /pets/{id}")
	flags.String("method", "get", "HTTP method of the operation")
	flags.String("stack", "vanilla", "Target stack for the example")
	flags.String("base-url", "", "Base URL used in the example")

	return cmd
}

func resolveExampleConfig(cmd *cobra.Command) (*ExampleConfig, error) {
	cfg := &ExampleConfig{}
	flags := cmd.Flags()

	var err error
	if cfg.Input, err = flags.GetString("input"); err != nil {
		return nil, err
	}
	if cfg.Path, err = flags.GetString("path"); err != nil {
		return nil, err
	}
	if cfg.Method, err = flags.GetString("method"); err != nil {
		return nil, err
	}
	if cfg.Stack, err = flags.GetString("stack"); err != nil {
		return nil, err
	}
	if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
		return nil, err
	}

	cfg.Path = strings.TrimSpace(cfg.Path)
	if cfg.Path == "" {
		return nil, newUsageError("example: --path is required")
	}
	if _, err := codegen.ParseStack(cfg.Stack); err != nil {
		return nil, newUsageError(fmt.Sprintf("example: %v", err))
	}
	return cfg, nil
}

func runExample(ctx context.Context, cfg *ExampleConfig, stdout io.Writer) error {
	doc, baseURL, err := loadDocument(ctx, cfg.Input, cfg.BaseURL, false)
	if err != nil {
		return err
	}

	method := strings.ToUpper(strings.TrimSpace(cfg.Method))
	op := doc.Operation(cfg.Path, method)
	if op == nil {
		return newUsageError(fmt.Sprintf("example: operation %s %s not found in document", method, cfg.Path))
	}

	stack, err := codegen.ParseStack(cfg.Stack)
	if err != nil {
		return newUsageError(fmt.Sprintf("example: %v", err))
	}
	code := codegen.Generate(stack, codegen.Request{
		Method:      method,
		Path:        cfg.Path,
		BaseURL:     baseURL,
		NeedsAuth:   spec.HasBearerAuth(op),
		BodySummary: spec.BodySummary(op),
	})
	_, err = fmt.Fprintln(stdout, code)
	return err
}
