// Package agent exposes the API reference as text tools for LLM assistants:
// an overview, per-endpoint details, and code example generation. The same
// three tools back both the chat loop and the MCP server.
package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/specdocs/internal/codegen"
	"github.com/mark3labs/specdocs/internal/spec"
)

const (
	maxOverviewDescription = 800
	maxEndpointSummary     = 120
	maxEndpointsPerTag     = 20
)

// Overview builds a compact text summary of the API: title, version,
// description, and endpoints grouped by tag. When tagFilter is non-empty,
// only operations carrying one of those tags are listed.
func Overview(doc *spec.Document, tagFilter []string) string {
	filter := map[string]bool{}
	for _, t := range tagFilter {
		filter[t] = true
	}

	byTag := map[string][]string{}
	for _, group := range doc.Normalize() {
		for _, ep := range group.Endpoints {
			if len(filter) > 0 && !filter[ep.Tag] {
				continue
			}
			summary := ep.Summary
			if summary == "" {
				summary = ep.Description
			}
			summary = truncate(strings.TrimSpace(summary), maxEndpointSummary)
			line := fmt.Sprintf("    %s %s", ep.Method, ep.Path)
			if summary != "" {
				line += " — " + summary
			}
			byTag[ep.Tag] = append(byTag[ep.Tag], line)
		}
	}

	lines := []string{
		"Title: " + doc.Title(),
		"Version: " + doc.Version(),
	}
	if desc := strings.TrimSpace(doc.Description()); desc != "" {
		lines = append(lines, "Description: "+truncate(desc, maxOverviewDescription))
	}
	lines = append(lines, "Endpoints:")
	tags := make([]string, 0, len(byTag))
	for tag := range byTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		lines = append(lines, fmt.Sprintf("  [%s]", tag))
		eps := byTag[tag]
		if len(eps) > maxEndpointsPerTag {
			eps = eps[:maxEndpointsPerTag]
		}
		lines = append(lines, eps...)
	}
	if len(filter) > 0 && len(byTag) == 0 {
		lines = append(lines, "  (No endpoints in selected modules.)")
	}
	return strings.Join(lines, "\n")
}

// EndpointDetails describes one operation as text: parameters, request body,
// and response codes.
func EndpointDetails(doc *spec.Document, path, method string) string {
	method = strings.ToUpper(method)
	op := doc.Operation(path, method)
	if op == nil {
		return fmt.Sprintf("Endpoint %s %s not found.", method, path)
	}

	var ep spec.Endpoint
	for _, group := range doc.Normalize() {
		for _, candidate := range group.Endpoints {
			if candidate.Path == path && candidate.Method == method {
				ep = candidate
			}
		}
	}

	lines := []string{fmt.Sprintf("%s %s", method, path)}
	if ep.Summary != "" {
		lines = append(lines, ep.Summary)
	} else if ep.Description != "" {
		lines = append(lines, ep.Description)
	}
	lines = append(lines, "Parameters:")
	for _, p := range ep.Parameters {
		lines = append(lines, fmt.Sprintf("  - %s (%s): %s", p.Name, p.In, p.Description))
	}
	bodyDesc := "see schema"
	if ep.RequestBody != nil && ep.RequestBody.Description != "" {
		bodyDesc = ep.RequestBody.Description
	}
	lines = append(lines, "Request body: "+bodyDesc)
	codes := make([]string, 0, len(ep.Responses))
	for _, r := range ep.Responses {
		codes = append(codes, r.Code)
	}
	lines = append(lines, "Responses: "+strings.Join(codes, ", "))
	return strings.Join(lines, "\n")
}

// CodeExample synthesizes a client example for an operation. Unknown stacks
// fall back to the vanilla template rather than erroring; strict stack
// validation belongs at the HTTP boundary.
func CodeExample(doc *spec.Document, baseURL, path, method, stack string) string {
	method = strings.ToUpper(method)
	op := doc.Operation(path, method)
	req := codegen.Request{Method: method, Path: path, BaseURL: baseURL}
	if op != nil {
		req.NeedsAuth = spec.HasBearerAuth(op)
		req.BodySummary = spec.BodySummary(op)
	}
	parsed, err := codegen.ParseStack(stack)
	if err != nil {
		parsed = codegen.StackVanilla
	}
	return codegen.Generate(parsed, req)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
