package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/specdocs/internal/fetch"
	"github.com/mark3labs/specdocs/internal/spec"
)

// defaultBaseURL is used for code examples when the input is a local file
// and no --base-url was given.
const defaultBaseURL = "http://localhost:8080"

// loadDocument resolves --input into a parsed document plus the base URL
// requests against the described API should use. Inputs starting with
// http:// or https:// are fetched, everything else is read as a file path.
func loadDocument(ctx context.Context, input, baseURL string, strict bool) (*spec.Document, string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, "", newUsageError("--input is required (path or URL of the OpenAPI/Swagger document)")
	}

	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		doc, err := fetch.New(fetch.Options{}).Spec(ctx, input)
		if err != nil {
			return nil, "", fmt.Errorf("fetch %s: %w", input, err)
		}
		if baseURL == "" {
			baseURL = fetch.BaseURLFromSpecURL(input)
		}
		return doc, baseURL, nil
	}

	doc, err := spec.LoadFile(ctx, input, spec.LoadOptions{Strict: strict})
	if err != nil {
		// Map structured spec errors into friendly messages
		var se *spec.SpecError
		if errors.As(err, &se) {
			msg := fmt.Sprintf("spec: %s", se.Message)
			if se.Location != "" {
				msg = fmt.Sprintf("%s\nLocation: %s", msg, se.Location)
			}
			if se.JSONPointer != "" {
				msg = fmt.Sprintf("%s\nPointer: %s", msg, se.JSONPointer)
			}
			return nil, "", newUsageError(msg)
		}
		return nil, "", err
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return doc, baseURL, nil
}
