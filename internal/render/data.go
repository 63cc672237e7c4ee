// Package render turns a parsed API document into the two reference views:
// a structured JSON payload for client-side UIs and a self-contained HTML
// page. Both views are built from the same normalized endpoint model and
// always enumerate the same endpoints and tags.
package render

import (
	"strings"

	"github.com/mark3labs/specdocs/internal/codegen"
	"github.com/mark3labs/specdocs/internal/spec"
)

// Data is the JSON-serializable API reference payload. OverviewSummary is
// filled in by the caller when an LLM-written introduction is available.
type Data struct {
	Title           string               `json:"title"`
	Version         string               `json:"version"`
	Description     string               `json:"description"`
	BaseURL         string               `json:"base_url"`
	Tags            []TagData            `json:"tags"`
	Stacks          []codegen.Descriptor `json:"stacks"`
	OverviewSummary string               `json:"overview_summary,omitempty"`
}

type TagData struct {
	Name      string         `json:"name"`
	Endpoints []EndpointData `json:"endpoints"`
}

type EndpointData struct {
	EndpointID  string          `json:"endpoint_id"`
	Path        string          `json:"path"`
	Method      string          `json:"method"`
	Summary     string          `json:"summary"`
	Description string          `json:"description"`
	HowToCall   HowToCall       `json:"how_to_call"`
	Parameters  []ParameterData `json:"parameters"`
	RequestBody *BodyData       `json:"request_body_schema"`
	Responses   []ResponseData  `json:"responses"`
}

type HowToCall struct {
	FullURL   string `json:"full_url"`
	NeedsAuth bool   `json:"needs_auth"`
	HasBody   bool   `json:"has_body"`
}

type ParameterData struct {
	Name        string `json:"name"`
	In          string `json:"in"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

type ResponseData struct {
	Code        string      `json:"code"`
	Description string      `json:"description"`
	BodySchema  *SchemaData `json:"body_schema,omitempty"`
}

type BodyData struct {
	Description string      `json:"description"`
	Schema      *SchemaData `json:"schema"`
}

// SchemaData is the flat data projection of a body schema: an object with a
// property list, or a bare type name for references and scalars.
type SchemaData struct {
	Type       string         `json:"type"`
	Properties []PropertyData `json:"properties,omitempty"`
}

type PropertyData struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// BuildData builds the reference payload for a document. baseURL may be
// empty; endpoint URLs then fall back to the bare path.
func BuildData(doc *spec.Document, baseURL string) Data {
	base := strings.TrimRight(baseURL, "/")
	out := Data{
		Title:       doc.Title(),
		Version:     doc.Version(),
		Description: doc.Description(),
		BaseURL:     base,
		Tags:        []TagData{},
		Stacks:      codegen.Descriptors(),
	}
	for _, group := range doc.Normalize() {
		tag := TagData{Name: group.Name, Endpoints: make([]EndpointData, 0, len(group.Endpoints))}
		for _, ep := range group.Endpoints {
			fullURL := ep.Path
			if base != "" {
				fullURL = base + ep.Path
			}
			ed := EndpointData{
				EndpointID:  ep.ID,
				Path:        ep.Path,
				Method:      ep.Method,
				Summary:     ep.Summary,
				Description: ep.Description,
				HowToCall: HowToCall{
					FullURL:   fullURL,
					NeedsAuth: ep.NeedsAuth,
					HasBody:   ep.HasBody,
				},
				Parameters:  make([]ParameterData, 0, len(ep.Parameters)),
				Responses:   make([]ResponseData, 0, len(ep.Responses)),
				RequestBody: bodyData(ep.RequestBody),
			}
			for _, p := range ep.Parameters {
				ed.Parameters = append(ed.Parameters, ParameterData(p))
			}
			for _, r := range ep.Responses {
				ed.Responses = append(ed.Responses, ResponseData{
					Code:        r.Code,
					Description: r.Description,
					BodySchema:  schemaData(r.Body),
				})
			}
			tag.Endpoints = append(tag.Endpoints, ed)
		}
		out.Tags = append(out.Tags, tag)
	}
	return out
}

func bodyData(body *spec.BodySchema) *BodyData {
	if body == nil {
		return nil
	}
	return &BodyData{Description: body.Description, Schema: schemaData(body)}
}

func schemaData(body *spec.BodySchema) *SchemaData {
	if body == nil {
		return nil
	}
	if body.Schema != nil {
		out := &SchemaData{Type: "object", Properties: make([]PropertyData, 0, len(body.Schema.Fields))}
		for _, f := range body.Schema.Fields {
			out.Properties = append(out.Properties, PropertyData{
				Name:        f.Name,
				Type:        f.TypeLabel,
				Required:    f.Required,
				Description: f.Description,
			})
		}
		return out
	}
	if body.RefName != "" {
		return &SchemaData{Type: body.RefName}
	}
	return &SchemaData{Type: body.TypeLabel}
}
