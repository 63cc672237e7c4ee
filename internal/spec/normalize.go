package spec

import (
	"fmt"
	"sort"
	"strings"
)

// jsonMediaTypes are the request/response media types the renderers show.
var jsonMediaTypes = []string{"application/json", "application/json; charset=utf-8"}

// DefaultTag groups operations that carry no tags of their own.
const DefaultTag = "Other"

// EndpointSlug derives a URL-fragment-safe slug from a method and path:
// lower-cased, anything but alphanumerics, '-' and '_' replaced with '-',
// leading and trailing '-' trimmed. Deterministic for identical inputs.
func EndpointSlug(method, path string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(method + "-" + path) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// TagSlug derives the URL-fragment-safe slug used for tag anchors.
func TagSlug(tag string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(tag) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// Normalize walks the document's paths and groups operations into tag groups.
// Paths iterate in lexicographic order and methods in MethodOrder, then a
// second pass picks up non-standard HTTP-like verbs that carry a summary or
// description, so rendering is deterministic across runs. Malformed operation
// objects are skipped silently.
func (d *Document) Normalize() []TagGroup {
	byTag := map[string][]Endpoint{}

	paths := d.Paths()
	pathKeys := make([]string, 0, len(paths))
	for p := range paths {
		pathKeys = append(pathKeys, p)
	}
	sort.Strings(pathKeys)

	standard := map[string]bool{}
	for _, m := range MethodOrder {
		standard[m] = true
	}

	for _, path := range pathKeys {
		item, ok := paths[path].(map[string]any)
		if !ok {
			continue
		}
		for _, method := range MethodOrder {
			op, ok := item[method].(map[string]any)
			if !ok {
				continue
			}
			ep := d.normalizeOperation(path, method, op)
			byTag[ep.Tag] = append(byTag[ep.Tag], ep)
		}
	}

	// Documents in the wild use additional HTTP-like verbs as path-item keys.
	// Pick those up when they look like operations, excluding the standard
	// methods already handled above.
	for _, path := range pathKeys {
		item, ok := paths[path].(map[string]any)
		if !ok {
			continue
		}
		if _, hasGet := item["get"]; hasGet {
			continue
		}
		if _, hasPost := item["post"]; hasPost {
			continue
		}
		extraKeys := make([]string, 0, len(item))
		for key := range item {
			if !standard[strings.ToLower(key)] {
				extraKeys = append(extraKeys, key)
			}
		}
		sort.Strings(extraKeys)
		for _, key := range extraKeys {
			op, ok := item[key].(map[string]any)
			if !ok {
				continue
			}
			_, hasSummary := op["summary"]
			_, hasDescription := op["description"]
			if !hasSummary && !hasDescription {
				continue
			}
			ep := d.normalizeOperation(path, key, op)
			byTag[ep.Tag] = append(byTag[ep.Tag], ep)
		}
	}

	tags := make([]string, 0, len(byTag))
	for tag := range byTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	out := make([]TagGroup, 0, len(tags))
	for _, tag := range tags {
		out = append(out, TagGroup{Name: tag, Endpoints: byTag[tag]})
	}
	return out
}

func (d *Document) normalizeOperation(path, method string, op map[string]any) Endpoint {
	ep := Endpoint{
		ID:          "endpoint-" + EndpointSlug(method, path),
		Path:        path,
		Method:      strings.ToUpper(method),
		Tag:         operationTag(op),
		Summary:     asString(op["summary"]),
		Description: asString(op["description"]),
		NeedsAuth:   HasBearerAuth(op),
	}
	ep.Parameters = normalizeParameters(op)
	ep.RequestBody = d.normalizeRequestBody(op)
	ep.Responses = d.normalizeResponses(op)
	ep.HasBody = OperationHasBody(ep.Method, op)
	return ep
}

func operationTag(op map[string]any) string {
	tags, ok := op["tags"].([]any)
	if !ok || len(tags) == 0 {
		return DefaultTag
	}
	if tag := asString(tags[0]); tag != "" {
		return tag
	}
	return DefaultTag
}

// HasBearerAuth reports whether any of the operation's security entries
// mention "bearer" in their scheme names or stringified values. Requirement
// objects map scheme names to scope lists, so the usual {"bearerAuth": []}
// shape matches on the key. This is a heuristic and does not resolve
// securitySchemes definitions.
func HasBearerAuth(op map[string]any) bool {
	sec, ok := op["security"].([]any)
	if !ok {
		return false
	}
	for _, entry := range sec {
		em, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		for name, v := range em {
			if strings.Contains(strings.ToLower(name), "bearer") {
				return true
			}
			if strings.Contains(strings.ToLower(fmt.Sprint(v)), "bearer") {
				return true
			}
		}
	}
	return false
}

// OperationHasBody reports whether an operation takes a JSON request body:
// the method must be POST, PUT or PATCH and the requestBody must carry one of
// the recognized JSON media types.
func OperationHasBody(method string, op map[string]any) bool {
	switch strings.ToUpper(method) {
	case "POST", "PUT", "PATCH":
	default:
		return false
	}
	body, ok := op["requestBody"].(map[string]any)
	if !ok {
		return false
	}
	content, ok := body["content"].(map[string]any)
	if !ok {
		return false
	}
	for _, mt := range jsonMediaTypes {
		if _, ok := content[mt]; ok {
			return true
		}
	}
	return false
}

// BodySummary produces a short hint at an operation's JSON body shape for
// code example synthesis: the referenced schema name, a comma-joined property
// list, "body" for opaque schemas, or "" when there is no JSON body.
func BodySummary(op map[string]any) string {
	body, ok := op["requestBody"].(map[string]any)
	if !ok {
		return ""
	}
	content, ok := body["content"].(map[string]any)
	if !ok {
		return ""
	}
	var schema map[string]any
	for _, mt := range jsonMediaTypes {
		media, ok := content[mt].(map[string]any)
		if !ok {
			continue
		}
		if s, ok := media["schema"].(map[string]any); ok {
			schema = s
			break
		}
	}
	if schema == nil {
		return ""
	}
	if ref := schemaRef(schema); ref != "" {
		return RefName(ref)
	}
	props, _ := schema["properties"].(map[string]any)
	if len(props) == 0 {
		return "body"
	}
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func normalizeParameters(op map[string]any) []Parameter {
	params, ok := op["parameters"].([]any)
	if !ok {
		return nil
	}
	out := make([]Parameter, 0, len(params))
	for _, p := range params {
		pm, ok := p.(map[string]any)
		if !ok {
			continue
		}
		loc := asString(pm["in"])
		if loc == "" {
			loc = "query"
		}
		required, _ := pm["required"].(bool)
		out = append(out, Parameter{
			Name:        asString(pm["name"]),
			In:          loc,
			Required:    required,
			Description: strings.ReplaceAll(asString(pm["description"]), "\n", " "),
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (d *Document) normalizeRequestBody(op map[string]any) *BodySchema {
	body, ok := op["requestBody"].(map[string]any)
	if !ok {
		return nil
	}
	content, ok := body["content"].(map[string]any)
	if !ok {
		return nil
	}
	for _, mt := range jsonMediaTypes {
		media, ok := content[mt].(map[string]any)
		if !ok {
			continue
		}
		if schema, ok := media["schema"].(map[string]any); ok {
			return d.ProjectBody(schema, asString(body["description"]))
		}
	}
	return nil
}

func (d *Document) normalizeResponses(op map[string]any) []Response {
	responses, ok := op["responses"].(map[string]any)
	if !ok {
		return nil
	}
	codes := make([]string, 0, len(responses))
	for code := range responses {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]Response, 0, len(codes))
	for _, code := range codes {
		resp := Response{Code: code}
		rm, ok := responses[code].(map[string]any)
		if !ok {
			// A bare string description is still worth showing.
			resp.Description = fmt.Sprint(responses[code])
			out = append(out, resp)
			continue
		}
		resp.Description = asString(rm["description"])
		if content, ok := rm["content"].(map[string]any); ok {
			for _, mt := range jsonMediaTypes {
				media, ok := content[mt].(map[string]any)
				if !ok {
					continue
				}
				if schema, ok := media["schema"].(map[string]any); ok {
					resp.Body = d.ProjectBody(schema, "")
				}
				break
			}
		}
		out = append(out, resp)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
