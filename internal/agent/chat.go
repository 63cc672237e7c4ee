package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mark3labs/specdocs/internal/spec"
)

const chatSystemPrefix = "You are a helpful assistant for an API. Use the API reference below to answer questions. Be concise. If the user asks for code, you can use the generate_code_example tool."

// maxToolRounds bounds the completion/tool loop so a misbehaving model cannot
// spin forever.
const maxToolRounds = 10

// Message is one turn in a chat conversation. Role is one of system, user,
// assistant, or tool.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall is a model-requested tool invocation. Arguments is a JSON object.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Completion is one model response: free text, tool calls, or both.
type Completion struct {
	Content   string
	ToolCalls []ToolCall
}

// ToolDef describes a tool offered to the model. Parameters is a JSON schema
// object.
type ToolDef struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// CompletionClient abstracts the LLM backend. A nil client means chat is
// not configured; the agent then answers with a fixed unavailability notice.
type CompletionClient interface {
	Complete(ctx context.Context, messages []Message, tools []ToolDef) (*Completion, error)
}

// ChatTools returns the tool definitions offered during chat.
func ChatTools() []ToolDef {
	return []ToolDef{
		{
			Name:        "get_api_overview",
			Description: "Get the full API overview: title, version, description, and list of endpoints by tag.",
			Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
		},
		{
			Name:        "get_endpoint_details",
			Description: "Get details for a specific endpoint: parameters, request body, responses.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"path":   map[string]any{"type": "string", "description": "API path, e.g. /users"},
					"method": map[string]any{"type": "string", "description": "HTTP method: GET, POST, PUT, PATCH, DELETE"},
				},
				"required": []string{"path", "method"},
			},
		},
		{
			Name:        "generate_code_example",
			Description: "Generate a frontend/mobile code example for an endpoint in a given stack (e.g. react-fetch, vue3, nextjs, flutter).",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"path":   map[string]any{"type": "string", "description": "API path"},
					"method": map[string]any{"type": "string", "description": "GET, POST, etc."},
					"stack":  map[string]any{"type": "string", "description": "Stack: react-fetch, react-axios, vue3, nextjs, angular, svelte, vanilla, react-native, flutter, swift-ios, kotlin-android"},
				},
				"required": []string{"path", "method", "stack"},
			},
		},
	}
}

const overviewSummaryPrompt = "You write brief, clear API overviews for documentation. Output only 2-4 sentences. No markdown, no bullets."

// OverviewSummary asks the model for a short written introduction to the API.
// It returns "" when no client is configured or the call fails; callers then
// omit the summary from their payloads.
func OverviewSummary(ctx context.Context, client CompletionClient, doc *spec.Document) string {
	if client == nil {
		return ""
	}
	messages := []Message{
		{Role: "system", Content: overviewSummaryPrompt},
		{Role: "user", Content: "Write a short introduction/overview for this API:\n\n" + Overview(doc, nil)},
	}
	completion, err := client.Complete(ctx, messages, nil)
	if err != nil || completion == nil {
		return ""
	}
	return strings.TrimSpace(completion.Content)
}

// Reply is the agent's answer to a chat request.
type Reply struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

func reply(content string) Reply {
	return Reply{ID: uuid.NewString(), Role: "assistant", Content: content}
}

// Chat runs the agent loop: a system message with the API summary, then
// completions interleaved with tool execution until the model answers in
// plain text or the round limit is hit. tagFilter limits the API context to
// the named tags.
func Chat(ctx context.Context, client CompletionClient, doc *spec.Document, baseURL string, messages []Message, tagFilter []string) Reply {
	if client == nil {
		return reply("Chat is not available (no API key configured).")
	}

	system := chatSystemPrefix + "\n\nAPI reference:\n" + Overview(doc, tagFilter)
	if len(tagFilter) > 0 {
		system += "\n\n(Context is limited to the selected API modules above.)"
	}
	all := make([]Message, 0, len(messages)+1)
	all = append(all, Message{Role: "system", Content: system})
	all = append(all, messages...)

	tools := ChatTools()
	for round := 0; round < maxToolRounds; round++ {
		completion, err := client.Complete(ctx, all, tools)
		if err != nil {
			return reply(fmt.Sprintf("Sorry, something went wrong: %v", err))
		}
		if completion == nil {
			break
		}
		if len(completion.ToolCalls) == 0 {
			content := strings.TrimSpace(completion.Content)
			if content == "" {
				content = "(No response)"
			}
			return reply(content)
		}
		all = append(all, Message{Role: "assistant", Content: completion.Content, ToolCalls: completion.ToolCalls})
		for _, tc := range completion.ToolCalls {
			all = append(all, Message{
				Role:       "tool",
				ToolCallID: tc.ID,
				Content:    runTool(doc, baseURL, tc.Name, tc.Arguments),
			})
		}
	}
	return reply("I hit a limit on tool use. Please try a shorter question.")
}

// runTool executes one agent tool and returns its text result.
func runTool(doc *spec.Document, baseURL, name, rawArgs string) string {
	var args map[string]any
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		args = map[string]any{}
	}
	str := func(key, def string) string {
		if v, ok := args[key].(string); ok && v != "" {
			return v
		}
		return def
	}
	switch name {
	case "get_api_overview":
		return Overview(doc, nil)
	case "get_endpoint_details":
		return EndpointDetails(doc, str("path", ""), str("method", "get"))
	case "generate_code_example":
		code := CodeExample(doc, baseURL, str("path", ""), str("method", "get"), str("stack", "react-fetch"))
		if code == "" {
			return "No code generated."
		}
		return code
	default:
		return "Unknown tool."
	}
}
