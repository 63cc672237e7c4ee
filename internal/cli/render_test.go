package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const petsDocument = `
openapi: 3.0.0
info:
  title: Pets API
  version: 1.0.0
paths:
  /pets:
    get:
      tags: [Pets]
      summary: List pets
      responses:
        "200":
          description: OK
    post:
      tags: [Pets]
      summary: Create pet
      security:
        - bearerAuth: []
      requestBody:
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Pet'
      responses:
        "201":
          description: Created
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
`

func writePetsDocument(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	if err := os.WriteFile(path, []byte(petsDocument), 0o600); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

func TestRender_HTMLToFile(t *testing.T) {
	t.Parallel()
	input := writePetsDocument(t)
	out := filepath.Join(t.TempDir(), "reference.html")

	err := runRender(context.Background(), &RenderConfig{
		Input:  input,
		Out:    out,
		Format: "html",
	}, io.Discard)
	if err != nil {
		t.Fatalf("runRender: %v", err)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	html := string(raw)
	if !strings.Contains(html, "Pets API") {
		t.Errorf("output missing title")
	}
	if !strings.Contains(html, "id=\"endpoint-get--pets\"") {
		t.Errorf("output missing endpoint anchor")
	}
}

func TestRender_JSONToStdout(t *testing.T) {
	t.Parallel()
	input := writePetsDocument(t)

	var out strings.Builder
	err := runRender(context.Background(), &RenderConfig{
		Input:   input,
		BaseURL: "https://api.example.com",
		Format:  "json",
	}, &out)
	if err != nil {
		t.Fatalf("runRender: %v", err)
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(out.String()), &data); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if data["title"] != "Pets API" {
		t.Errorf("title mismatch: got %v", data["title"])
	}
	if data["base_url"] != "https://api.example.com" {
		t.Errorf("base_url mismatch: got %v", data["base_url"])
	}
}

func TestRender_UnsupportedFormat(t *testing.T) {
	t.Parallel()
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"render", "--input", "openapi.yaml", "--format", "pdf"})

	err := root.Execute()
	if err == nil {
		t.Fatalf("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported --format") {
		t.Fatalf("unexpected error text: %v", err)
	}
}

func TestRender_MissingInput(t *testing.T) {
	t.Parallel()
	err := runRender(context.Background(), &RenderConfig{Format: "html"}, io.Discard)
	if err == nil {
		t.Fatalf("expected error for missing input")
	}
	if _, ok := err.(usageError); !ok {
		t.Fatalf("expected usage error, got %T: %v", err, err)
	}
}
