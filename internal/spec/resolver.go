package spec

import (
	"errors"
	"strings"
)

// maxResolveDepth bounds recursive $ref and allOf resolution. The OpenAPI
// format permits reference chains that loop back on themselves; resolution
// must terminate, so chains deeper than this report ErrReferenceCycle.
const maxResolveDepth = 32

// ErrReferenceCycle is returned when $ref/allOf resolution exceeds
// maxResolveDepth, which in practice means a cyclic reference chain.
var ErrReferenceCycle = errors.New("spec: reference cycle detected")

const (
	refPrefixOAS3     = "#/components/schemas/"
	refPrefixSwagger2 = "#/definitions/"
)

// RefName returns the schema name a $ref value points at, e.g.
// "#/components/schemas/Pet" -> "Pet". Returns "" for empty refs.
func RefName(ref string) string {
	if ref == "" {
		return ""
	}
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

func schemaRef(node map[string]any) string {
	return asString(node["$ref"])
}

// ResolveRef resolves a node containing $ref to the referenced schema from
// components.schemas (OAS3) or definitions (Swagger 2), selected by the ref
// prefix. A node without a $ref is returned unchanged. An unknown name
// resolves to nil; refs outside the two local prefixes are returned as-is.
func (d *Document) ResolveRef(node map[string]any) map[string]any {
	if node == nil {
		return nil
	}
	ref := schemaRef(node)
	if ref == "" {
		return node
	}
	if strings.HasPrefix(ref, refPrefixOAS3) || strings.HasPrefix(ref, refPrefixSwagger2) {
		return d.SchemaByName(RefName(ref))
	}
	return node
}

// ResolveSchema fully resolves a schema node for display: $ref chains are
// followed and allOf branches are merged into a single object node. Property
// sets union with later branches winning on name collision; required lists
// concatenate. Returns (nil, nil) for unresolvable refs and
// (nil, ErrReferenceCycle) when resolution does not terminate in
// maxResolveDepth steps.
func (d *Document) ResolveSchema(node map[string]any) (map[string]any, error) {
	return d.resolveSchema(node, 0)
}

func (d *Document) resolveSchema(node map[string]any, depth int) (map[string]any, error) {
	if node == nil {
		return nil, nil
	}
	if depth >= maxResolveDepth {
		return nil, ErrReferenceCycle
	}
	if schemaRef(node) != "" {
		resolved := d.ResolveRef(node)
		if resolved == nil {
			return nil, nil
		}
		// A ref may point at another ref or an allOf composite.
		return d.resolveSchema(resolved, depth+1)
	}
	if branches, ok := node["allOf"].([]any); ok {
		merged := map[string]any{
			"type":       "object",
			"properties": map[string]any{},
			"required":   []any{},
		}
		props := merged["properties"].(map[string]any)
		required := merged["required"].([]any)
		for _, branch := range branches {
			bm, ok := branch.(map[string]any)
			if !ok {
				continue
			}
			resolved, err := d.resolveSchema(bm, depth+1)
			if err != nil {
				return nil, err
			}
			if resolved == nil {
				continue
			}
			if req, ok := resolved["required"].([]any); ok {
				required = append(required, req...)
			}
			if bp, ok := resolved["properties"].(map[string]any); ok {
				for name, ps := range bp {
					props[name] = ps
				}
			}
		}
		merged["required"] = required
		return merged, nil
	}
	return node, nil
}

// requiredSet extracts a schema's required list as a set of property names.
func requiredSet(node map[string]any) map[string]bool {
	out := map[string]bool{}
	req, ok := node["required"].([]any)
	if !ok {
		return out
	}
	for _, r := range req {
		if name, ok := r.(string); ok {
			out[name] = true
		}
	}
	return out
}
