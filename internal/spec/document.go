package spec

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Dialect identifies which flavor of the OpenAPI family a document speaks.
type Dialect int

const (
	DialectUnknown Dialect = iota
	// DialectOAS3 is OpenAPI 3.x: schemas live under components.schemas.
	DialectOAS3
	// DialectSwagger2 is Swagger 2.0: schemas live under definitions.
	DialectSwagger2
)

func (d Dialect) String() string {
	switch d {
	case DialectOAS3:
		return "openapi3"
	case DialectSwagger2:
		return "swagger2"
	default:
		return "unknown"
	}
}

// Document wraps a parsed OpenAPI/Swagger document. The underlying map is
// owned by the caller and treated as immutable for the lifetime of the
// Document; all derived structures are freshly allocated.
type Document struct {
	root    map[string]any
	dialect Dialect
}

// Parse decodes raw JSON or YAML bytes into a Document and runs the minimal
// validity checks: paths must exist and either the openapi or swagger version
// marker must be present.
func Parse(raw []byte) (*Document, error) {
	var root map[string]any
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, &SpecError{Code: ParseError, Message: "spec: parse document: " + err.Error(), Cause: err}
	}
	return FromMap(root)
}

// FromMap wraps an already-decoded document, running the same minimal checks
// as Parse. The map is not copied.
func FromMap(root map[string]any) (*Document, error) {
	if root == nil {
		return nil, &SpecError{Code: ValidationError, Message: "spec: document is empty"}
	}
	if _, ok := root["paths"]; !ok {
		return nil, &SpecError{Code: ValidationError, Message: "spec: not a valid OpenAPI/Swagger document (missing 'paths')"}
	}
	_, hasOpenAPI := root["openapi"]
	_, hasSwagger := root["swagger"]
	if !hasOpenAPI && !hasSwagger {
		return nil, &SpecError{Code: ValidationError, Message: "spec: not a valid OpenAPI/Swagger document (missing 'openapi' or 'swagger' field)"}
	}
	dialect := DialectOAS3
	if !hasOpenAPI {
		dialect = DialectSwagger2
	}
	return &Document{root: root, dialect: dialect}, nil
}

// Dialect reports the detected document dialect.
func (d *Document) Dialect() Dialect { return d.dialect }

// Title returns info.title, or a generic fallback when absent.
func (d *Document) Title() string {
	if t := asString(d.info()["title"]); t != "" {
		return t
	}
	return "API Reference"
}

// Version returns info.version.
func (d *Document) Version() string { return asString(d.info()["version"]) }

// Description returns info.description.
func (d *Document) Description() string { return asString(d.info()["description"]) }

func (d *Document) info() map[string]any {
	m, _ := d.root["info"].(map[string]any)
	return m
}

// Paths returns the raw paths object. Never nil after Parse.
func (d *Document) Paths() map[string]any {
	m, _ := d.root["paths"].(map[string]any)
	return m
}

// SchemaByName looks up a named schema in components.schemas (OAS3) with a
// fallback to definitions (Swagger 2). Returns nil when the name is absent.
func (d *Document) SchemaByName(name string) map[string]any {
	if components, ok := d.root["components"].(map[string]any); ok {
		if schemas, ok := components["schemas"].(map[string]any); ok {
			if s, ok := schemas[name].(map[string]any); ok {
				return s
			}
		}
	}
	if definitions, ok := d.root["definitions"].(map[string]any); ok {
		if s, ok := definitions[name].(map[string]any); ok {
			return s
		}
	}
	return nil
}

// Operation returns the raw operation object for a path and method, or nil
// when either is absent or not the expected shape.
func (d *Document) Operation(path, method string) map[string]any {
	item, ok := d.Paths()[path].(map[string]any)
	if !ok {
		return nil
	}
	op, _ := item[strings.ToLower(method)].(map[string]any)
	return op
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
