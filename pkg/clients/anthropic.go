package clients

import (
	"context"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
)

const defaultAnthropicMaxTokens = 1024

// AnthropicClient adapts the Anthropic Messages API to the Client
// contract. It backs the gateway slot for chat-only skills.
type AnthropicClient struct {
	client anthropic.Client
	model  anthropic.Model
}

var _ Client = &AnthropicClient{}

// NewAnthropicClient creates an Anthropic-backed client.
func NewAnthropicClient(apiKey, model string) *AnthropicClient {
	m := anthropic.Model(model)
	if model == "" {
		m = anthropic.ModelClaude3_5HaikuLatest
	}
	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  m,
	}
}

// Chat issues a single non-streaming message request and concatenates
// the text blocks of the response.
func (c *AnthropicClient) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	model := c.model
	if req.Model != "" {
		model = anthropic.Model(req.Model)
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case "assistant":
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: int64(maxTokens),
		Messages:  messages,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return ChatResponse{}, errors.Wrap(err, "anthropic message failed")
	}

	var content string
	for _, block := range resp.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			content += text.Text
		}
	}
	return ChatResponse{Content: content}, nil
}

// Request is not supported by the Anthropic client.
func (c *AnthropicClient) Request(_ context.Context, _, _ string, _ any) (json.RawMessage, error) {
	return nil, ErrUnsupported
}

// GraphQL is not supported by the Anthropic client.
func (c *AnthropicClient) GraphQL(_ context.Context, _ string, _ map[string]any) (json.RawMessage, error) {
	return nil, ErrUnsupported
}

// Fetch is not supported by the Anthropic client.
func (c *AnthropicClient) Fetch(_ context.Context, _ string, _ map[string]string) (json.RawMessage, error) {
	return nil, ErrUnsupported
}
