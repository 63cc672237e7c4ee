package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/specdocs/internal/agent"
	"github.com/mark3labs/specdocs/internal/config"
	"github.com/mark3labs/specdocs/internal/render"
)

const upstreamSpec = `{
  "openapi": "3.0.0",
  "info": {"title": "Orders API", "version": "2.1.0"},
  "paths": {
    "/orders": {
      "get": {
        "tags": ["Orders"],
        "summary": "List orders",
        "security": [{"bearerAuth": []}],
        "responses": {"200": {"description": "OK"}}
      },
      "post": {
        "tags": ["Orders"],
        "summary": "Create order",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {"$ref": "#/components/schemas/Order"}
            }
          }
        },
        "responses": {"201": {"description": "Created"}}
      }
    }
  },
  "components": {
    "schemas": {
      "Order": {
        "type": "object",
        "properties": {"id": {"type": "string"}, "total": {"type": "number"}}
      }
    }
  }
}`

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openapi.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(upstreamSpec))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	s, err := New(Options{Config: cfg})
	require.NoError(t, err)
	return s
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
}

func TestDocs_SelfDocument(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/docs", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	html := rec.Body.String()
	assert.Contains(t, html, "SpecDocs")
	assert.Contains(t, html, "id=\"endpoint-")
	assert.Contains(t, html, "/api-reference/generate-example")
}

func TestAgentDocs_ExternalDocument(t *testing.T) {
	upstream := newUpstream(t)
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/agent-docs?openapi_url="+upstream.URL+"/openapi.json", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var data render.Data
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Equal(t, "Orders API", data.Title)
	assert.Equal(t, "2.1.0", data.Version)
	assert.Equal(t, upstream.URL, data.BaseURL)
	require.Len(t, data.Tags, 1)
	assert.Equal(t, "Orders", data.Tags[0].Name)
	assert.Len(t, data.Tags[0].Endpoints, 2)
}

func TestAgentDocs_DefaultDocument(t *testing.T) {
	upstream := newUpstream(t)
	s := newTestServer(t, &config.Config{DefaultOpenAPIURL: upstream.URL + "/openapi.json"})

	req := httptest.NewRequest(http.MethodGet, "/api/agent-docs", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var data render.Data
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Equal(t, "Orders API", data.Title)
	assert.Empty(t, data.OverviewSummary)
}

// cannedChat answers every completion with a fixed text.
type cannedChat struct{ content string }

func (c cannedChat) Complete(_ context.Context, _ []agent.Message, _ []agent.ToolDef) (*agent.Completion, error) {
	return &agent.Completion{Content: c.content}, nil
}

func TestAgentDocs_OverviewSummary(t *testing.T) {
	upstream := newUpstream(t)
	s, err := New(Options{ChatClient: cannedChat{content: "Orders API lets clients list and create orders."}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/agent-docs?openapi_url="+upstream.URL+"/openapi.json", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var data render.Data
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Equal(t, "Orders API lets clients list and create orders.", data.OverviewSummary)
}

func TestGenerateExample(t *testing.T) {
	upstream := newUpstream(t)
	s := newTestServer(t, nil)

	rec := postJSON(t, s, "/api-reference/generate-example", GenerateExampleRequest{
		Path:       "/orders",
		Method:     "get",
		Stack:      "vanilla",
		OpenAPIURL: upstream.URL + "/openapi.json",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var body GenerateExampleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Code, upstream.URL+"/orders")
	assert.Contains(t, body.Code, "Authorization")
	assert.NotContains(t, body.Code, "JSON.stringify")
}

func TestGenerateExample_BodyAndBaseURLOverride(t *testing.T) {
	upstream := newUpstream(t)
	s := newTestServer(t, nil)

	rec := postJSON(t, s, "/api-reference/generate-example", GenerateExampleRequest{
		Path:       "/orders",
		Method:     "POST",
		Stack:      "react-axios",
		BaseURL:    "https://prod.example.com",
		OpenAPIURL: upstream.URL + "/openapi.json",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var body GenerateExampleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Code, "https://prod.example.com")
	assert.Contains(t, body.Code, "Order")
}

func TestGenerateExample_UnknownStack(t *testing.T) {
	s := newTestServer(t, nil)

	rec := postJSON(t, s, "/api-reference/generate-example", GenerateExampleRequest{
		Path: "/orders", Method: "GET", Stack: "cobol",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Detail, "stack must be one of")
}

func TestGenerateExample_UnknownOperation(t *testing.T) {
	upstream := newUpstream(t)
	s := newTestServer(t, nil)

	rec := postJSON(t, s, "/api-reference/generate-example", GenerateExampleRequest{
		Path:       "/nope",
		Method:     "delete",
		Stack:      "vanilla",
		OpenAPIURL: upstream.URL + "/openapi.json",
	})

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Operation DELETE /nope not found in schema", body.Detail)
}

func TestGenerateExample_UpstreamFailure(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(down.Close)
	s := newTestServer(t, nil)

	rec := postJSON(t, s, "/api-reference/generate-example", GenerateExampleRequest{
		Path: "/orders", Method: "GET", Stack: "vanilla",
		OpenAPIURL: down.URL + "/openapi.json",
	})

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Detail)
}

func TestGenerateExample_ForbiddenOrigin(t *testing.T) {
	s := newTestServer(t, &config.Config{
		AllowedOpenAPIOrigins: []string{"https://allowed.example.com"},
	})

	rec := postJSON(t, s, "/api-reference/generate-example", GenerateExampleRequest{
		Path: "/orders", Method: "GET", Stack: "vanilla",
		OpenAPIURL: "https://evil.example.com/openapi.json",
	})

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestChat_NoClientConfigured(t *testing.T) {
	s := newTestServer(t, nil)

	rec := postJSON(t, s, "/api/agent/chat", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "How do I list orders?"}},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var body ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "assistant", body.Message.Role)
	assert.Contains(t, body.Message.Content, "not available")
	assert.NotEmpty(t, body.Message.ID)
}

func TestChat_EmptyMessages(t *testing.T) {
	s := newTestServer(t, nil)

	rec := postJSON(t, s, "/api/agent/chat", map[string]any{"messages": []any{}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSwaggerSchemaServed(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/swagger/schema.json", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	for _, p := range []string{"/health", "/docs", "/api/agent-docs", "/api-reference/generate-example", "/api/agent/chat"} {
		assert.Contains(t, paths, p)
	}
}

func TestStaticSPA(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>spa shell</html>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log('app')"), 0o600))

	s := newTestServer(t, &config.Config{StaticDir: dir})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/app.js", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "console.log")

	// Client-side routes fall back to the shell.
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/settings/profile", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "spa shell")
}

func TestDocs_BaseURLFromRequest(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "http://docs.example.com/docs", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "https://docs.example.com"))
}
