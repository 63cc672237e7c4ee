package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/mark3labs/specdocs/internal/codegen"
	"github.com/mark3labs/specdocs/internal/spec"
)

//go:embed templates/reference.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.New("reference.html.tmpl").Funcs(template.FuncMap{
	"lower":    strings.ToLower,
	"truncate": truncate,
	"br":       newlinesToBreaks,
}).ParseFS(templateFS, "templates/reference.html.tmpl"))

// page is the root template context for the HTML reference.
type page struct {
	Title       string
	Version     string
	Description string
	Tags        []tagView
	FirstTagID  string
	Stacks      []codegen.Descriptor
}

type tagView struct {
	Name      string
	ID        string
	Endpoints []endpointView
}

type endpointView struct {
	ID          string
	Path        string
	Method      string
	Summary     string
	Description string
	FullURL     string
	NeedsAuth   bool
	HasBody     bool
	Parameters  []spec.Parameter
	RequestBody *spec.BodySchema
	Responses   []spec.Response
}

// Label is the sidebar and TOC display text: the summary, or the path when
// the operation has none.
func (e endpointView) Label() string {
	if e.Summary != "" {
		return e.Summary
	}
	return e.Path
}

// WriteHTML renders the full API reference page for a document. All document
// text passes through contextual escaping, so untrusted documents cannot
// inject markup.
func WriteHTML(w io.Writer, doc *spec.Document, baseURL string) error {
	base := strings.TrimRight(baseURL, "/")
	p := page{
		Title:       doc.Title(),
		Version:     doc.Version(),
		Description: doc.Description(),
		Stacks:      codegen.Descriptors(),
	}
	for _, group := range doc.Normalize() {
		tv := tagView{
			Name:      group.Name,
			ID:        "tag-" + spec.TagSlug(group.Name),
			Endpoints: make([]endpointView, 0, len(group.Endpoints)),
		}
		for _, ep := range group.Endpoints {
			fullURL := ep.Path
			if base != "" {
				fullURL = base + ep.Path
			}
			tv.Endpoints = append(tv.Endpoints, endpointView{
				ID:          ep.ID,
				Path:        ep.Path,
				Method:      ep.Method,
				Summary:     ep.Summary,
				Description: ep.Description,
				FullURL:     fullURL,
				NeedsAuth:   ep.NeedsAuth,
				HasBody:     ep.HasBody,
				Parameters:  ep.Parameters,
				RequestBody: ep.RequestBody,
				Responses:   ep.Responses,
			})
		}
		p.Tags = append(p.Tags, tv)
	}
	if len(p.Tags) > 0 {
		p.FirstTagID = p.Tags[0].ID
	}
	if err := pageTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("render: execute template: %w", err)
	}
	return nil
}

// truncate shortens s to max runes, appending an ellipsis when cut.
func truncate(max int, s string) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

// newlinesToBreaks escapes s and converts newlines to <br> tags, for
// description blocks that carry multi-line text.
func newlinesToBreaks(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>\n"))
}
