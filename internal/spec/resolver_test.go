package spec

import (
	"errors"
	"testing"
)

const composedSpec = `openapi: 3.0.0
info: {title: Composed, version: "1"}
paths: {}
components:
  schemas:
    Base:
      type: object
      required: [id]
      properties:
        id:
          type: integer
        kind:
          type: string
          description: base kind
    Extended:
      allOf:
        - $ref: '#/components/schemas/Base'
        - type: object
          required: [name]
          properties:
            name:
              type: string
            kind:
              type: string
              description: overridden kind
    Alias:
      $ref: '#/components/schemas/Base'
    Loop:
      $ref: '#/components/schemas/Loop'
`

func TestRefName(t *testing.T) {
	t.Parallel()
	cases := []struct{ ref, want string }{
		{"#/components/schemas/Pet", "Pet"},
		{"#/definitions/Item", "Item"},
		{"Plain", "Plain"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := RefName(tc.ref); got != tc.want {
			t.Errorf("RefName(%q): got %q, want %q", tc.ref, got, tc.want)
		}
	}
}

func TestResolveRef(t *testing.T) {
	t.Parallel()
	d := parseDoc(t, composedSpec)

	base := d.ResolveRef(map[string]any{"$ref": "#/components/schemas/Base"})
	if base == nil || asString(base["type"]) != "object" {
		t.Fatalf("base: %+v", base)
	}
	if d.ResolveRef(map[string]any{"$ref": "#/components/schemas/Missing"}) != nil {
		t.Fatal("missing name should resolve to nil")
	}
	// Nodes without a ref pass through untouched.
	plain := map[string]any{"type": "string"}
	if got := d.ResolveRef(plain); got == nil || asString(got["type"]) != "string" {
		t.Fatalf("plain: %+v", got)
	}
	// External refs are not resolvable here and pass through.
	ext := map[string]any{"$ref": "other.yaml#/Thing"}
	if got := d.ResolveRef(ext); got == nil || asString(got["$ref"]) == "" {
		t.Fatalf("external: %+v", got)
	}
}

func TestResolveSchema_AllOfMerge(t *testing.T) {
	t.Parallel()
	d := parseDoc(t, composedSpec)

	merged, err := d.ResolveSchema(map[string]any{"$ref": "#/components/schemas/Extended"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	props, _ := merged["properties"].(map[string]any)
	if len(props) != 3 {
		t.Fatalf("properties: %+v", props)
	}
	// Later branches win on collision.
	kind, _ := props["kind"].(map[string]any)
	if asString(kind["description"]) != "overridden kind" {
		t.Errorf("kind description: %q", asString(kind["description"]))
	}
	required := requiredSet(merged)
	if !required["id"] || !required["name"] {
		t.Errorf("required: %+v", required)
	}
}

func TestResolveSchema_ChainAndCycle(t *testing.T) {
	t.Parallel()
	d := parseDoc(t, composedSpec)

	// Alias is a ref to a ref target; chains resolve through.
	resolved, err := d.ResolveSchema(map[string]any{"$ref": "#/components/schemas/Alias"})
	if err != nil {
		t.Fatalf("alias: %v", err)
	}
	if props, _ := resolved["properties"].(map[string]any); len(props) != 2 {
		t.Fatalf("alias properties: %+v", resolved)
	}

	_, err = d.ResolveSchema(map[string]any{"$ref": "#/components/schemas/Loop"})
	if !errors.Is(err, ErrReferenceCycle) {
		t.Fatalf("loop: got %v, want ErrReferenceCycle", err)
	}

	// Unresolvable refs are nil, nil.
	resolved, err = d.ResolveSchema(map[string]any{"$ref": "#/components/schemas/Missing"})
	if err != nil || resolved != nil {
		t.Fatalf("missing: %v, %+v", err, resolved)
	}
}
