package spec

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// ErrorCode categorizes loader errors for clearer handling and messaging.
type ErrorCode string

const (
	InputError      ErrorCode = "InputError"
	ParseError      ErrorCode = "ParseError"
	ValidationError ErrorCode = "ValidationError"
)

// SpecError is a structured error with an optional location and JSON Pointer.
type SpecError struct {
	Code        ErrorCode
	Message     string
	Location    string // file path or URL
	JSONPointer string // e.g. "#/paths/~1pets/get"
	Cause       error
}

func (e *SpecError) Error() string { return e.Message }
func (e *SpecError) Unwrap() error { return e.Cause }

// LoadOptions configures LoadFile behavior.
type LoadOptions struct {
	// Strict runs the document through the kin-openapi validator in addition
	// to the minimal checks. Only OpenAPI 3 documents are strictly validated;
	// Swagger 2 documents skip this step.
	Strict bool
}

// LoadFile reads and parses an OpenAPI/Swagger document from disk.
func LoadFile(ctx context.Context, path string, opts LoadOptions) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &SpecError{Code: InputError, Message: "spec: resolve path: " + err.Error(), Location: path, Cause: err}
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, &SpecError{Code: InputError, Message: "spec: read file: " + err.Error(), Location: abs, Cause: err}
	}
	doc, err := Parse(raw)
	if err != nil {
		var se *SpecError
		if errors.As(err, &se) && se.Location == "" {
			se.Location = abs
		}
		return nil, err
	}
	if opts.Strict && doc.Dialect() == DialectOAS3 {
		if err := ValidateStrict(ctx, raw); err != nil {
			var se *SpecError
			if errors.As(err, &se) && se.Location == "" {
				se.Location = abs
			}
			return nil, err
		}
	}
	return doc, nil
}

// ValidateStrict validates raw OpenAPI 3 bytes with kin-openapi. Certain
// validation complaints (unresolved external refs) are tolerated so a
// best-effort render can still proceed.
func ValidateStrict(ctx context.Context, raw []byte) error {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return &SpecError{Code: ParseError, Message: "spec: " + err.Error(), Cause: err}
	}
	if err := doc.Validate(ctx); err != nil && !canProceedDespiteValidation(err) {
		return &SpecError{Code: ValidationError, Message: "spec: " + err.Error(), JSONPointer: extractJSONPointer(err), Cause: err}
	}
	return nil
}

// canProceedDespiteValidation returns true for validation errors where a
// best-effort render can still proceed (e.g. unresolved $ref entries).
func canProceedDespiteValidation(err error) bool {
	if err == nil {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unresolved ref")
}

var jsonPtrRe = regexp.MustCompile(`#/[^\s'"]+`)

func extractJSONPointer(err error) string {
	if err == nil {
		return ""
	}
	if me, ok := err.(openapi3.MultiError); ok {
		if len(me) > 0 {
			return extractJSONPointer(me[0])
		}
	}
	var se *openapi3.SchemaError
	if errors.As(err, &se) {
		if parts := se.JSONPointer(); len(parts) > 0 {
			return "#/" + strings.Join(parts, "/")
		}
		if se.SchemaField != "" {
			return se.SchemaField
		}
	}
	if m := jsonPtrRe.FindString(err.Error()); m != "" {
		return m
	}
	return ""
}
