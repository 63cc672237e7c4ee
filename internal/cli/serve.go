package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mark3labs/specdocs/internal/agent"
	"github.com/mark3labs/specdocs/internal/config"
	"github.com/mark3labs/specdocs/internal/server"
)

// ServeConfig captures all inputs that influence the serve command after
// merging defaults, config file values, and CLI overrides.
type ServeConfig struct {
	Listen         string
	OpenAPIURL     string
	AllowedOrigins []string
	StaticDir      string
	OpenAIAPIKey   string
	OpenAIModel    string
	ConfigPath     string
	Verbose        bool
}

var serveRunner = runServe

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reference site, example generator, and chat agent over HTTP",
		Example: strings.TrimSpace(`  specdocs serve --listen :8080 --openapi-url https://petstore3.swagger.io/api/v3/openapi.json
  specdocs --config config.yaml serve`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveServeConfig(cmd)
			if err != nil {
				return err
			}
			return serveRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("listen", "", "Listen address (defaults to :8080)")
	flags.String("openapi-url", "", "Default OpenAPI/Swagger document URL to document")
	flags.StringSlice("allowed-origins", nil, "Restrict fetchable documents to these origins")
	flags.String("static-dir", "", "Directory with a SPA to serve under /app")

	return cmd
}

func resolveServeConfig(cmd *cobra.Command) (*ServeConfig, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)

	fileCfg, err := config.Load(configPath)
	if err != nil {
		return nil, newUsageError(fmt.Sprintf("serve: %v", err))
	}

	cfg := &ServeConfig{
		Listen:         fileCfg.ListenAddr,
		OpenAPIURL:     fileCfg.DefaultOpenAPIURL,
		AllowedOrigins: fileCfg.AllowedOpenAPIOrigins,
		StaticDir:      fileCfg.StaticDir,
		OpenAIAPIKey:   fileCfg.OpenAIAPIKey,
		OpenAIModel:    fileCfg.OpenAIModel,
		ConfigPath:     configPath,
	}
	if err := applyServeFlagOverrides(cmd.Flags(), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyServeFlagOverrides(flags *pflag.FlagSet, cfg *ServeConfig) error {
	if flags.Changed("listen") {
		value, err := flags.GetString("listen")
		if err != nil {
			return err
		}
		cfg.Listen = strings.TrimSpace(value)
	}
	if flags.Changed("openapi-url") {
		value, err := flags.GetString("openapi-url")
		if err != nil {
			return err
		}
		cfg.OpenAPIURL = strings.TrimSpace(value)
	}
	if flags.Changed("allowed-origins") {
		value, err := flags.GetStringSlice("allowed-origins")
		if err != nil {
			return err
		}
		cfg.AllowedOrigins = value
	}
	if flags.Changed("static-dir") {
		value, err := flags.GetString("static-dir")
		if err != nil {
			return err
		}
		cfg.StaticDir = strings.TrimSpace(value)
	}
	if flags.Changed("verbose") {
		value, err := flags.GetBool("verbose")
		if err != nil {
			return err
		}
		cfg.Verbose = value
	}
	return nil
}

func runServe(ctx context.Context, cfg *ServeConfig) error {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var chat agent.CompletionClient
	if cfg.OpenAIAPIKey != "" {
		chat = agent.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, "")
	}

	srv, err := server.New(server.Options{
		Config: &config.Config{
			ListenAddr:            cfg.Listen,
			DefaultOpenAPIURL:     cfg.OpenAPIURL,
			AllowedOpenAPIOrigins: cfg.AllowedOrigins,
			StaticDir:             cfg.StaticDir,
		},
		ChatClient: chat,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	httpSrv := &http.Server{Addr: cfg.Listen, Handler: srv.Handler()}
	go func() {
		<-ctx.Done()
		_ = httpSrv.Close()
	}()

	logger.Info("listening", "addr", cfg.Listen)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
