package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSpecJSON = `{"openapi": "3.0.0", "info": {"title": "Remote", "version": "1"}, "paths": {"/x": {"get": {"responses": {"200": {"description": "ok"}}}}}}`

func TestCandidates(t *testing.T) {
	t.Parallel()

	direct := Candidates("https://api.example.com/openapi.json")
	require.Len(t, direct, 1)
	assert.Equal(t, "https://api.example.com/openapi.json", direct[0])

	yml := Candidates("https://api.example.com/spec.yml/")
	require.Len(t, yml, 1)

	docs := Candidates("https://api.example.com/v1/docs")
	require.Len(t, docs, 1)

	base := Candidates("https://api.example.com/")
	require.Len(t, base, len(specURLSuffixes))
	assert.Equal(t, "https://api.example.com/openapi.json", base[0])
	assert.Equal(t, "https://api.example.com/swagger.json", base[1])
	assert.Equal(t, "https://api.example.com/.well-known/openapi.json", base[len(base)-1])
}

func TestSpec_DirectURL(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept"), "application/json")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(validSpecJSON))
	}))
	defer srv.Close()

	doc, err := New(Options{}).Spec(context.Background(), srv.URL+"/openapi.json")
	require.NoError(t, err)
	assert.Equal(t, "Remote", doc.Title())
}

func TestSpec_ProbesCandidatesInOrder(t *testing.T) {
	t.Parallel()
	var tried []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tried = append(tried, r.URL.Path)
		if r.URL.Path != "/swagger.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`swagger: "2.0"
info: {title: Legacy, version: "1"}
paths: {}
`))
	}))
	defer srv.Close()

	doc, err := New(Options{}).Spec(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Legacy", doc.Title())
	require.GreaterOrEqual(t, len(tried), 2)
	assert.Equal(t, "/openapi.json", tried[0])
	assert.Equal(t, "/swagger.json", tried[1])
}

func TestSpec_InvalidDocumentIsUpstreamError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"openapi": "3.0.0"}`))
	}))
	defer srv.Close()

	_, err := New(Options{}).Spec(context.Background(), srv.URL+"/openapi.json")
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Contains(t, ue.Detail, "missing 'paths'")
}

func TestSpec_AllFailuresSurfaceLastError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(Options{}).Spec(context.Background(), srv.URL+"/openapi.json")
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Contains(t, ue.Detail, "503")
}

func TestSpec_OriginAllowlist(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(validSpecJSON))
	}))
	defer srv.Close()

	blocked := New(Options{AllowedOrigins: []string{"https://api.other.com"}})
	_, err := blocked.Spec(context.Background(), srv.URL+"/openapi.json")
	var fe *ForbiddenError
	require.ErrorAs(t, err, &fe)

	allowed := New(Options{AllowedOrigins: []string{srv.URL}})
	_, err = allowed.Spec(context.Background(), srv.URL+"/openapi.json")
	require.NoError(t, err)
}

func TestSpec_RejectsNonHTTPSchemes(t *testing.T) {
	t.Parallel()
	for _, u := range []string{"ftp://example.com/spec.json", "file:///etc/hosts", "not a url"} {
		_, err := New(Options{}).Spec(context.Background(), u)
		var be *BadRequestError
		assert.ErrorAs(t, err, &be, "url %q", u)
	}
}

func TestBaseURLFromSpecURL(t *testing.T) {
	t.Parallel()
	cases := []struct{ in, want string }{
		{"https://api.example.com/openapi.json", "https://api.example.com"},
		{"https://api.example.com/v2/swagger.yaml", "https://api.example.com/v2"},
		{"https://api.example.com/api-docs", "https://api.example.com"},
		{"https://api.example.com/v1/docs/", "https://api.example.com/v1"},
		{"https://api.example.com", "https://api.example.com"},
		{"https://api.example.com/nested/base", "https://api.example.com/nested/base"},
		{"not a url", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BaseURLFromSpecURL(tc.in), "input %q", tc.in)
	}
}
