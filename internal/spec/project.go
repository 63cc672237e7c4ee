package spec

import (
	"sort"
	"strings"
)

// TypeLabel returns a short display label for a schema node: the referenced
// name for $ref nodes, "array of X" for arrays, "object" for objects, the
// raw type string otherwise, and "any" when no type is present.
func TypeLabel(node map[string]any) string {
	if node == nil {
		return "any"
	}
	if ref := schemaRef(node); ref != "" {
		return RefName(ref)
	}
	typ := asString(node["type"])
	if typ == "array" {
		items, ok := node["items"].(map[string]any)
		if !ok {
			return "array of any"
		}
		if ref := schemaRef(items); ref != "" {
			return "array of " + RefName(ref)
		}
		return "array of " + TypeLabel(items)
	}
	if typ == "object" {
		return "object"
	}
	if typ == "" {
		return "any"
	}
	return typ
}

// ProjectSchema resolves and projects a schema node into an ordered list of
// renderable fields. Returns nil when the node does not resolve to an object
// with properties (including unresolvable refs and reference cycles; the
// renderer falls back to a placeholder in those cases).
func (d *Document) ProjectSchema(node map[string]any) *RenderableSchema {
	return d.projectSchema(node, 0)
}

func (d *Document) projectSchema(node map[string]any, depth int) *RenderableSchema {
	if node == nil || depth >= maxResolveDepth {
		return nil
	}
	resolved, err := d.ResolveSchema(node)
	if err != nil || resolved == nil {
		return nil
	}
	props, _ := resolved["properties"].(map[string]any)
	if asString(resolved["type"]) != "object" && len(props) == 0 {
		return nil
	}
	if len(props) == 0 {
		return nil
	}
	required := requiredSet(resolved)

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	out := &RenderableSchema{Fields: make([]RenderableField, 0, len(names))}
	for _, name := range names {
		prop, ok := props[name].(map[string]any)
		if !ok {
			continue
		}
		propResolved, rerr := d.ResolveSchema(prop)

		field := RenderableField{
			Name:      name,
			TypeLabel: TypeLabel(prop),
			Required:  required[name],
		}
		// Description precedence: the property's own description, then the
		// resolved target schema's. The parent schema's description is never
		// attributed to a property.
		field.Description = strings.ReplaceAll(asString(prop["description"]), "\n", " ")
		if field.Description == "" && rerr == nil && propResolved != nil {
			field.Description = strings.ReplaceAll(asString(propResolved["description"]), "\n", " ")
		}

		if rerr == nil && propResolved != nil && asString(propResolved["type"]) == "object" {
			if nested := d.projectSchema(propResolved, depth+1); nested != nil {
				field.Nested = nested
			}
		}
		if field.Nested == nil && asString(prop["type"]) == "array" {
			if items, ok := prop["items"].(map[string]any); ok && schemaRef(items) == "" {
				if asString(items["type"]) == "object" {
					if nested := d.projectSchema(items, depth+1); nested != nil {
						field.Nested = nested
						field.NestedIsItems = true
					}
				}
			}
		}
		out.Fields = append(out.Fields, field)
	}
	if len(out.Fields) == 0 {
		return nil
	}
	return out
}

// ProjectBody projects a request or response body schema node into a
// BodySchema, falling back to a named placeholder for unresolvable refs and
// to a bare type label for non-object schemas.
func (d *Document) ProjectBody(node map[string]any, description string) *BodySchema {
	if node == nil {
		return nil
	}
	body := &BodySchema{Description: strings.ReplaceAll(description, "\n", " ")}
	if schema := d.ProjectSchema(node); schema != nil {
		body.Schema = schema
		return body
	}
	if ref := schemaRef(node); ref != "" {
		body.RefName = RefName(ref)
		return body
	}
	body.TypeLabel = TypeLabel(node)
	return body
}
