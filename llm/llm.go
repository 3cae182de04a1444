// Package llm defines the language-model collaborator boundary.
//
// The pipeline uses the model in two shapes: free text (answer generation)
// and schema-forced structured output (document grading, profile extraction).
// All failures surface as core.ErrInference; callers wrap that into their
// stage-specific error kind.
package llm

import (
	"context"
	"encoding/json"
)

// ToolSpec describes a single structured-output target schema. The model is
// forced to call this tool and the tool's input is the structured result.
type ToolSpec struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
}

// Client is the interface the pipeline holds on the model.
type Client interface {
	// Complete returns the model's free-text response for a system prompt
	// plus a single user prompt.
	Complete(ctx context.Context, system, prompt string) (string, error)

	// ExtractTool forces the model to produce a structured object matching
	// tool's schema and returns the raw JSON of that object.
	ExtractTool(ctx context.Context, system, prompt string, tool ToolSpec) (json.RawMessage, error)
}
