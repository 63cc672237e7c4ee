// Package fetch acquires OpenAPI/Swagger documents from remote APIs. Given a
// direct spec URL it fetches that one location; given a bare base URL it
// probes a list of well-known spec paths in order and uses the first that
// yields a valid document.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mark3labs/specdocs/internal/spec"
)

const (
	// DefaultTimeout bounds each candidate request.
	DefaultTimeout = 10 * time.Second

	// acceptHeader prefers JSON but allows YAML for servers that negotiate.
	acceptHeader = "application/json, application/vnd.oai.openapi+json, " +
		"application/yaml, application/vnd.oai.openapi, text/yaml, */*"

	maxSpecBytes = 20 << 20
)

// specURLSuffixes are probed in order against a base URL. JSON first, then
// content-negotiated docs endpoints, then YAML, then versioned paths.
var specURLSuffixes = []string{
	"/openapi.json",
	"/swagger.json",
	"/api-docs",
	"/docs",
	"/docs/",
	"/openapi.yaml",
	"/openapi.yml",
	"/swagger.yaml",
	"/swagger.yml",
	"/v3/api-docs",
	"/v1/openapi.json",
	"/api-docs.json",
	"/.well-known/openapi.json",
}

// BadRequestError reports a malformed or unsupported spec URL.
type BadRequestError struct{ Detail string }

func (e *BadRequestError) Error() string { return e.Detail }

// ForbiddenError reports a spec URL outside the configured origin allowlist.
type ForbiddenError struct{ Detail string }

func (e *ForbiddenError) Error() string { return e.Detail }

// UpstreamError reports that no candidate URL yielded a valid document. The
// detail describes the last failure and is safe to return to API clients.
type UpstreamError struct{ Detail string }

func (e *UpstreamError) Error() string { return e.Detail }

// Options configures a Client.
type Options struct {
	// Timeout per candidate request. Zero means DefaultTimeout.
	Timeout time.Duration
	// AllowedOrigins restricts which scheme://host origins may be fetched.
	// Empty means any origin is allowed.
	AllowedOrigins []string
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
	// Logger records candidate probing at debug level. Nil means the
	// default logger.
	Logger *slog.Logger
}

// Client fetches remote API documents.
type Client struct {
	http           *http.Client
	allowedOrigins []string
	log            *slog.Logger
}

func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	allowed := make([]string, 0, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			allowed = append(allowed, o)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{http: hc, allowedOrigins: allowed, log: logger}
}

// Spec fetches and parses the document reachable from rawURL.
func (c *Client) Spec(ctx context.Context, rawURL string) (*spec.Document, error) {
	if err := c.checkOrigin(rawURL); err != nil {
		return nil, err
	}
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, &BadRequestError{Detail: "openapi_url must be http or https"}
	}

	var lastError string
	for _, specURL := range Candidates(rawURL) {
		root, errDetail := c.fetchOne(ctx, specURL)
		if errDetail != "" {
			c.log.Debug("candidate failed", "url", specURL, "detail", errDetail)
			lastError = errDetail
			continue
		}
		if _, ok := root["paths"]; !ok {
			return nil, &UpstreamError{Detail: "Fetched URL but it is not a valid OpenAPI/Swagger document (missing 'paths')."}
		}
		_, hasOpenAPI := root["openapi"]
		_, hasSwagger := root["swagger"]
		if !hasOpenAPI && !hasSwagger {
			return nil, &UpstreamError{Detail: "Fetched URL but it is not a valid OpenAPI/Swagger document (missing 'openapi' or 'swagger' field)."}
		}
		doc, err := spec.FromMap(root)
		if err != nil {
			return nil, &UpstreamError{Detail: err.Error()}
		}
		return doc, nil
	}
	if lastError == "" {
		lastError = "Failed to fetch OpenAPI spec from any tried URL."
	}
	return nil, &UpstreamError{Detail: lastError}
}

// fetchOne fetches and decodes a single candidate. A non-empty string return
// is the failure detail for that candidate; the caller tries the next one.
func (c *Client) fetchOne(ctx context.Context, specURL string) (map[string]any, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, specURL, nil)
	if err != nil {
		return nil, fmt.Sprintf("Could not fetch spec (check URL and network): %v", err)
	}
	req.Header.Set("Accept", acceptHeader)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Sprintf("Could not fetch spec (check URL and network): %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Sprintf("Could not fetch spec: %d from %s", resp.StatusCode, specURL)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSpecBytes))
	if err != nil {
		return nil, fmt.Sprintf("Invalid response from %s: %v", specURL, err)
	}
	// YAML is a superset of JSON, so one decoder covers both content types.
	var root map[string]any
	if err := yaml.Unmarshal(body, &root); err != nil {
		return nil, fmt.Sprintf("Invalid response from %s: %v", specURL, err)
	}
	if root == nil {
		return nil, fmt.Sprintf("Response from %s is not a valid object", specURL)
	}
	return root, ""
}

func (c *Client) checkOrigin(rawURL string) error {
	if len(c.allowedOrigins) == 0 {
		return nil
	}
	origin := originFromURL(rawURL)
	if origin == "" {
		return &BadRequestError{Detail: "openapi_url must be a valid http or https URL"}
	}
	for _, allowed := range c.allowedOrigins {
		if origin == allowed {
			return nil
		}
	}
	return &ForbiddenError{Detail: "This API docs instance is restricted to specific APIs. The given URL is not allowed."}
}

func originFromURL(rawURL string) string {
	parsed, err := url.Parse(strings.TrimRight(strings.TrimSpace(rawURL), "/"))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}

// Candidates returns the URLs tried for rawURL: the URL itself when it points
// directly at a spec or docs endpoint, otherwise the base URL joined with
// each well-known suffix.
func Candidates(rawURL string) []string {
	u := strings.TrimRight(strings.TrimSpace(rawURL), "/")
	lower := strings.ToLower(u)
	if strings.HasSuffix(lower, ".json") || strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return []string{u}
	}
	path := ""
	if parsed, err := url.Parse(u); err == nil {
		path = strings.ToLower(strings.TrimRight(parsed.Path, "/"))
	}
	if strings.HasSuffix(path, "/docs") || strings.HasSuffix(path, "/openapi") || strings.HasSuffix(path, "/api-docs") {
		return []string{u}
	}
	out := make([]string, 0, len(specURLSuffixes))
	for _, suffix := range specURLSuffixes {
		out = append(out, u+suffix)
	}
	return out
}

// BaseURLFromSpecURL derives the API base URL from a spec URL by stripping
// the trailing spec filename or docs segment.
func BaseURLFromSpecURL(rawURL string) string {
	parsed, err := url.Parse(strings.TrimRight(strings.TrimSpace(rawURL), "/"))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	path := strings.TrimRight(parsed.Path, "/")
	lower := strings.ToLower(path)
	strip := false
	switch {
	case strings.HasSuffix(lower, "/api-docs"), strings.HasSuffix(lower, "/docs"), strings.HasSuffix(lower, "/openapi"):
		strip = true
	case strings.HasSuffix(lower, ".json"), strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		strip = true
	}
	if strip {
		if i := strings.LastIndex(path, "/"); i >= 0 {
			path = path[:i]
		}
	}
	if path == "" {
		return parsed.Scheme + "://" + parsed.Host
	}
	return parsed.Scheme + "://" + parsed.Host + path
}
