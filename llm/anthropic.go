package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/sahayak-ai/sahayak/core"
)

const (
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 4096
)

// AnthropicConfig configures the Anthropic-backed client.
type AnthropicConfig struct {
	APIKey    string
	Model     string
	MaxTokens int64
}

// AnthropicClient implements Client on top of the Anthropic Messages API.
// Structured output uses a single forced tool call: the model must invoke the
// target tool and the tool input is the typed result.
type AnthropicClient struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropic creates a client. Model and MaxTokens fall back to defaults.
func NewAnthropic(cfg AnthropicConfig) *AnthropicClient {
	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	return &AnthropicClient{
		client:    &client,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Complete returns the concatenated text blocks of the model's response.
func (c *AnthropicClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrInference, err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(text.String()), nil
}

// ExtractTool forces the model to call the given tool and returns the raw
// input JSON of that call.
func (c *AnthropicClient) ExtractTool(ctx context.Context, system, prompt string, tool ToolSpec) (json.RawMessage, error) {
	schema, err := encodeSchema(tool.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: tool %s schema: %v", core.ErrInference, tool.Name, err)
	}

	apiTool := anthropic.ToolParam{
		Name:        tool.Name,
		InputSchema: schema,
	}
	if tool.Description != "" {
		apiTool.Description = anthropic.String(tool.Description)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Tools: []anthropic.ToolUnionParam{{OfTool: &apiTool}},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: tool.Name},
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInference, err)
	}

	for _, block := range resp.Content {
		if block.Type == "tool_use" && block.Name == tool.Name {
			return json.RawMessage(block.Input), nil
		}
	}
	return nil, fmt.Errorf("%w: model produced no %s call", core.ErrInference, tool.Name)
}

// encodeSchema round-trips a schema map into the SDK's typed schema param.
func encodeSchema(raw map[string]interface{}) (anthropic.ToolInputSchemaParam, error) {
	if len(raw) == 0 {
		return anthropic.ToolInputSchemaParam{Type: "object"}, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return anthropic.ToolInputSchemaParam{}, err
	}
	var schema anthropic.ToolInputSchemaParam
	if err := json.Unmarshal(data, &schema); err != nil {
		return anthropic.ToolInputSchemaParam{}, err
	}
	if schema.Type == "" {
		schema.Type = "object"
	}
	return schema, nil
}
