// Package server exposes the HTTP surface: the rendered reference page, the
// agent docs data feed, code example generation, and the chat agent.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/vitalvas/kasper/mux"
	"github.com/vitalvas/kasper/muxhandlers"
	"github.com/vitalvas/kasper/openapi"

	"github.com/mark3labs/specdocs/internal/agent"
	"github.com/mark3labs/specdocs/internal/codegen"
	"github.com/mark3labs/specdocs/internal/config"
	"github.com/mark3labs/specdocs/internal/fetch"
	"github.com/mark3labs/specdocs/internal/render"
	"github.com/mark3labs/specdocs/internal/spec"
)

// Options configures a Server. Zero-value fields get sensible defaults, a
// nil ChatClient disables the chat agent.
type Options struct {
	Config     *config.Config
	Fetcher    *fetch.Client
	ChatClient agent.CompletionClient
	Logger     *slog.Logger
}

type Server struct {
	cfg     *config.Config
	fetcher *fetch.Client
	chat    agent.CompletionClient
	log     *slog.Logger
	router  *mux.Router

	selfOnce sync.Once
	selfDoc  *spec.Document
	selfErr  error
	apiSpec  *openapi.Spec
}

// ErrorResponse is the common error payload shape.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// GenerateExampleRequest asks for a code example for one operation.
type GenerateExampleRequest struct {
	Path       string `json:"path"`
	Method     string `json:"method"`
	Stack      string `json:"stack"`
	BaseURL    string `json:"base_url,omitempty"`
	OpenAPIURL string `json:"openapi_url,omitempty"`
}

// GenerateExampleResponse carries the generated snippet.
type GenerateExampleResponse struct {
	Code string `json:"code"`
}

// ChatRequest is a conversation turn sent to the docs agent.
type ChatRequest struct {
	Messages        []agent.Message `json:"messages"`
	OpenAPIURL      string          `json:"openapi_url,omitempty"`
	ContextTagNames []string        `json:"context_tag_names,omitempty"`
}

// ChatResponse wraps the agent's reply.
type ChatResponse struct {
	Message agent.Reply `json:"message"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status string `json:"status"`
}

// New builds the router, middleware chain, and self-describing schema.
func New(opts Options) (*Server, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = fetch.New(fetch.Options{
			AllowedOrigins: cfg.AllowedOpenAPIOrigins,
			Logger:         logger,
		})
	}

	s := &Server{
		cfg:     cfg,
		fetcher: fetcher,
		chat:    opts.ChatClient,
		log:     logger,
		router:  mux.NewRouter(),
	}
	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	if err := s.setupStatic(); err != nil {
		return nil, err
	}
	return s, nil
}

// setupStatic mounts the optional SPA directory under /app with index
// fallback so client-side routes resolve.
func (s *Server) setupStatic() error {
	if s.cfg.StaticDir == "" {
		return nil
	}
	handler, err := muxhandlers.StaticFilesHandler(muxhandlers.StaticFilesConfig{
		FS:          os.DirFS(s.cfg.StaticDir),
		SPAFallback: true,
	})
	if err != nil {
		return fmt.Errorf("static files: %w", err)
	}
	s.router.PathPrefix("/app/").Handler(http.StripPrefix("/app/", handler))
	return nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupMiddleware() error {
	s.router.Use(muxhandlers.RecoveryMiddleware(muxhandlers.RecoveryConfig{
		LogFunc: func(r *http.Request, err any) {
			s.log.Error("panic while serving request",
				"method", r.Method, "path", r.URL.Path, "panic", err)
		},
	}))
	s.router.Use(muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{}))

	cors, err := muxhandlers.CORSMiddleware(s.router, muxhandlers.CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	if err != nil {
		return fmt.Errorf("cors middleware: %w", err)
	}
	s.router.Use(cors)

	compression, err := muxhandlers.CompressionMiddleware(muxhandlers.CompressionConfig{})
	if err != nil {
		return fmt.Errorf("compression middleware: %w", err)
	}
	s.router.Use(compression)

	security, err := muxhandlers.SecurityHeadersMiddleware(muxhandlers.SecurityHeadersConfig{})
	if err != nil {
		return fmt.Errorf("security headers middleware: %w", err)
	}
	s.router.Use(security)
	return nil
}

func (s *Server) setupRoutes() {
	api := openapi.NewSpec(openapi.Info{
		Title:       "SpecDocs",
		Description: "Browsable API reference, code example generation, and a docs chat agent for any OpenAPI or Swagger document.",
		Version:     "1.0.0",
	})

	api.Route(s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)).
		OperationID("health").
		Summary("Health check").
		Tags("system").
		Response(http.StatusOK, HealthResponse{})

	api.Route(s.router.HandleFunc("/docs", s.handleDocs).Methods(http.MethodGet)).
		OperationID("referencePage").
		Summary("Rendered API reference page").
		Description("Returns the HTML reference for the document at openapi_url, the configured default document, or this service itself.").
		Tags("reference").
		Parameter(&openapi.Parameter{
			Name: "openapi_url", In: "query",
			Description: "URL of the OpenAPI or Swagger document to render",
			Schema:      &openapi.Schema{Type: openapi.TypeString("string")},
		}).
		ResponseContent(http.StatusOK, "text/html", &openapi.Schema{Type: openapi.TypeString("string")}).
		Response(http.StatusBadGateway, ErrorResponse{})

	api.Route(s.router.HandleFunc("/api/agent-docs", s.handleAgentDocs).Methods(http.MethodGet)).
		OperationID("agentDocs").
		Summary("Structured reference data").
		Description("The same reference content as /docs, as JSON for agents and tooling.").
		Tags("reference").
		Parameter(&openapi.Parameter{
			Name: "openapi_url", In: "query",
			Description: "URL of the OpenAPI or Swagger document to describe",
			Schema:      &openapi.Schema{Type: openapi.TypeString("string")},
		}).
		Response(http.StatusOK, render.Data{}).
		Response(http.StatusBadGateway, ErrorResponse{})

	api.Route(s.router.HandleFunc("/api-reference/generate-example", s.handleGenerateExample).Methods(http.MethodPost)).
		OperationID("generateExample").
		Summary("Generate a code example").
		Description("Synthesizes a client snippet for one operation in the chosen frontend or mobile stack.").
		Tags("reference").
		Request(GenerateExampleRequest{}).
		Response(http.StatusOK, GenerateExampleResponse{}).
		Response(http.StatusBadRequest, ErrorResponse{}).
		Response(http.StatusNotFound, ErrorResponse{}).
		Response(http.StatusBadGateway, ErrorResponse{})

	api.Route(s.router.HandleFunc("/api/agent/chat", s.handleChat).Methods(http.MethodPost)).
		OperationID("agentChat").
		Summary("Ask the docs agent").
		Tags("agent").
		Request(ChatRequest{}).
		Response(http.StatusOK, ChatResponse{}).
		Response(http.StatusBadRequest, ErrorResponse{}).
		Response(http.StatusBadGateway, ErrorResponse{})

	s.apiSpec = api
	api.Handle(s.router, "/swagger", nil)
}

// selfDocument parses the service's own schema into a Document so the
// reference page can render itself when no external document is configured.
func (s *Server) selfDocument() (*spec.Document, error) {
	s.selfOnce.Do(func() {
		raw, err := json.Marshal(s.apiSpec.Build(s.router))
		if err != nil {
			s.selfErr = fmt.Errorf("building self schema: %w", err)
			return
		}
		s.selfDoc, s.selfErr = spec.Parse(raw)
	})
	return s.selfDoc, s.selfErr
}

// document resolves which API document a request is about: an explicit
// openapi_url, the configured default, or the service's own schema.
func (s *Server) document(ctx context.Context, openapiURL string, r *http.Request) (*spec.Document, string, error) {
	if openapiURL == "" {
		openapiURL = s.cfg.DefaultOpenAPIURL
	}
	if openapiURL == "" {
		doc, err := s.selfDocument()
		return doc, requestBaseURL(r), err
	}
	doc, err := s.fetcher.Spec(ctx, openapiURL)
	if err != nil {
		return nil, "", err
	}
	return doc, fetch.BaseURLFromSpecURL(openapiURL), nil
}

func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	mux.ResponseJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	doc, baseURL, err := s.document(r.Context(), r.URL.Query().Get("openapi_url"), r)
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := render.WriteHTML(&buf, doc, baseURL); err != nil {
		mux.ResponseJSON(w, http.StatusInternalServerError, ErrorResponse{Detail: "Failed to render reference page"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleAgentDocs(w http.ResponseWriter, r *http.Request) {
	doc, baseURL, err := s.document(r.Context(), r.URL.Query().Get("openapi_url"), r)
	if err != nil {
		writeError(w, err)
		return
	}
	data := render.BuildData(doc, baseURL)
	data.OverviewSummary = agent.OverviewSummary(r.Context(), s.chat, doc)
	mux.ResponseJSON(w, http.StatusOK, data)
}

func (s *Server) handleGenerateExample(w http.ResponseWriter, r *http.Request) {
	var req GenerateExampleRequest
	if err := mux.BindJSON(r, &req); err != nil {
		mux.ResponseJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "Invalid request body"})
		return
	}
	stack, err := codegen.ParseStack(req.Stack)
	if err != nil {
		mux.ResponseJSON(w, http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
		return
	}

	doc, baseURL, err := s.document(r.Context(), req.OpenAPIURL, r)
	if err != nil {
		writeError(w, err)
		return
	}

	method := strings.ToUpper(req.Method)
	op := doc.Operation(req.Path, method)
	if op == nil {
		mux.ResponseJSON(w, http.StatusNotFound, ErrorResponse{
			Detail: fmt.Sprintf("Operation %s %s not found in schema", method, req.Path),
		})
		return
	}
	if req.BaseURL != "" {
		baseURL = req.BaseURL
	}

	code := codegen.Generate(stack, codegen.Request{
		Method:      method,
		Path:        req.Path,
		BaseURL:     baseURL,
		NeedsAuth:   spec.HasBearerAuth(op),
		BodySummary: spec.BodySummary(op),
	})
	mux.ResponseJSON(w, http.StatusOK, GenerateExampleResponse{Code: code})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := mux.BindJSON(r, &req); err != nil {
		mux.ResponseJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "Invalid request body"})
		return
	}
	if len(req.Messages) == 0 {
		mux.ResponseJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "messages must not be empty"})
		return
	}
	doc, baseURL, err := s.document(r.Context(), req.OpenAPIURL, r)
	if err != nil {
		writeError(w, err)
		return
	}
	msg := agent.Chat(r.Context(), s.chat, doc, baseURL, req.Messages, req.ContextTagNames)
	mux.ResponseJSON(w, http.StatusOK, ChatResponse{Message: msg})
}

// writeError maps document acquisition failures to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var badReq *fetch.BadRequestError
	if errors.As(err, &badReq) {
		mux.ResponseJSON(w, http.StatusBadRequest, ErrorResponse{Detail: badReq.Detail})
		return
	}
	var forbidden *fetch.ForbiddenError
	if errors.As(err, &forbidden) {
		mux.ResponseJSON(w, http.StatusForbidden, ErrorResponse{Detail: forbidden.Detail})
		return
	}
	var upstream *fetch.UpstreamError
	if errors.As(err, &upstream) {
		mux.ResponseJSON(w, http.StatusBadGateway, ErrorResponse{Detail: upstream.Detail})
		return
	}
	mux.ResponseJSON(w, http.StatusBadGateway, ErrorResponse{Detail: err.Error()})
}
