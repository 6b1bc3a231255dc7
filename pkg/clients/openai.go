package clients

import (
	"context"
	"encoding/json"

	openai "github.com/sashabaranov/go-openai"
	"github.com/pkg/errors"
)

const defaultOpenAIModel = openai.GPT4oMini

// OpenAIClient adapts the OpenAI API to the Client contract. It backs
// the provider slot and only supports Chat; skills that need Fetch or
// GraphQL must be wired to a different client.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

var _ Client = &OpenAIClient{}

// NewOpenAIClient creates an OpenAI-backed client. An empty model falls
// back to a small default suitable for structured-verdict prompts.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Chat issues a single non-streaming chat completion.
func (c *OpenAIClient) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return ChatResponse{}, errors.Wrap(err, "openai chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return ChatResponse{}, errors.New("openai returned no choices")
	}

	return ChatResponse{Content: resp.Choices[0].Message.Content}, nil
}

// Request is not supported by the OpenAI client.
func (c *OpenAIClient) Request(_ context.Context, _, _ string, _ any) (json.RawMessage, error) {
	return nil, ErrUnsupported
}

// GraphQL is not supported by the OpenAI client.
func (c *OpenAIClient) GraphQL(_ context.Context, _ string, _ map[string]any) (json.RawMessage, error) {
	return nil, ErrUnsupported
}

// Fetch is not supported by the OpenAI client.
func (c *OpenAIClient) Fetch(_ context.Context, _ string, _ map[string]string) (json.RawMessage, error) {
	return nil, ErrUnsupported
}
