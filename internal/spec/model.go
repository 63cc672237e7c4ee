package spec

// Normalized model consumed by the renderers and the agent tool surface.

// HTTP methods recognized on a path item, in rendering priority order.
var MethodOrder = []string{"get", "post", "put", "patch", "delete", "options", "head"}

// RenderableField is one projected schema property. Immutable once built.
type RenderableField struct {
	Name        string
	TypeLabel   string
	Required    bool
	Description string

	// Nested holds the recursively projected schema when the property is
	// itself an object, or an inline object used as array items. Arrays of
	// $ref items are deliberately not expanded to avoid duplicate and
	// circular expansion.
	Nested *RenderableSchema
	// NestedIsItems marks Nested as the array item schema rather than the
	// property's own object shape.
	NestedIsItems bool
}

// RenderableSchema is an ordered projection of an object schema's properties.
type RenderableSchema struct {
	Fields []RenderableField
}

// BodySchema describes a request or response body for rendering. At most one
// of Schema, RefName, TypeLabel is meaningful: a projected object schema, an
// unresolvable reference shown as a named placeholder, or a bare scalar type.
type BodySchema struct {
	Description string
	Schema      *RenderableSchema
	RefName     string
	TypeLabel   string
}

// Parameter is a normalized operation parameter.
type Parameter struct {
	Name        string
	In          string // query|path|header|cookie
	Required    bool
	Description string
}

// Response is a normalized response for one status code.
type Response struct {
	Code        string
	Description string
	Body        *BodySchema
}

// Endpoint is one operation, normalized for rendering and code generation.
type Endpoint struct {
	ID          string // URL-fragment-safe, "endpoint-" + slug(method-path)
	Path        string
	Method      string // upper-case
	Tag         string
	Summary     string
	Description string
	Parameters  []Parameter
	RequestBody *BodySchema
	Responses   []Response

	// NeedsAuth is a heuristic: true when any security entry's values
	// mention "bearer". It does not resolve securitySchemes.
	NeedsAuth bool
	// HasBody is true for POST/PUT/PATCH operations carrying a JSON body.
	HasBody bool
}

// TagGroup collects the endpoints sharing a first tag, in document order.
type TagGroup struct {
	Name      string
	Endpoints []Endpoint
}
