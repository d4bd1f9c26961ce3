package core

import (
	"context"
	"encoding/json"
)

// ResponseSchema constrains a completion to a structured JSON object.
type ResponseSchema struct {
	Name   string
	Schema json.RawMessage
}

// CompletionRequest is a single call to the completion service. Tools and
// Schema are mutually exclusive in practice: classifier stages use Schema,
// agent lanes use Tools.
type CompletionRequest struct {
	Messages []Message
	Tools    []Tool
	Schema   *ResponseSchema
}

type CompletionProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (Message, error)
}

// ToolHandler executes a named tool with raw JSON arguments and returns its
// textual result for the model.
type ToolHandler func(ctx context.Context, args json.RawMessage) (string, error)
