// Package clients defines the injected client contract shared by all
// skills, plus the two-slot resolution policy used to pick between the
// provider and gateway clients at call time.
package clients

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// Client is the collaborator every skill talks to. A concrete client
// only needs to support the methods its skill family uses; unsupported
// methods return ErrUnsupported.
type Client interface {
	// Request performs a REST-style call against the upstream API.
	Request(ctx context.Context, method, path string, body any) (json.RawMessage, error)
	// GraphQL executes a GraphQL query with variables.
	GraphQL(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
	// Fetch retrieves data from a logical endpoint (e.g. "market-data/quote").
	Fetch(ctx context.Context, endpoint string, params map[string]string) (json.RawMessage, error)
	// Chat sends a single chat-completion request and returns the text response.
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// ChatRequest is a single-turn chat-completion request.
type ChatRequest struct {
	Model     string        `json:"model,omitempty"`
	System    string        `json:"system,omitempty"`
	Messages  []ChatMessage `json:"messages"`
	MaxTokens int           `json:"maxTokens,omitempty"`
}

// ChatMessage is one message in a chat-completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse carries the text content of a chat completion.
type ChatResponse struct {
	Content string `json:"content"`
}

// ErrUnsupported is returned by clients that do not implement a given
// method. Callers treat it the same as an upstream failure.
var ErrUnsupported = errors.New("operation not supported by this client")

// ErrNotConfigured is returned by Resolve when neither client slot is set.
var ErrNotConfigured = errors.New("no client configured")

// Preference names the two-candidate resolution order. The market skill
// prefers the gateway client; the guard skill prefers the provider client.
type Preference int

const (
	// PreferProvider tries the provider client first, then the gateway.
	PreferProvider Preference = iota
	// PreferGateway tries the gateway client first, then the provider.
	PreferGateway
)

// Resolve picks the first available client according to the preference
// order. Returns ErrNotConfigured when both slots are nil.
func Resolve(pref Preference, provider, gateway Client) (Client, error) {
	first, second := provider, gateway
	if pref == PreferGateway {
		first, second = gateway, provider
	}
	if first != nil {
		return first, nil
	}
	if second != nil {
		return second, nil
	}
	return nil, ErrNotConfigured
}

// IsAbort reports whether err represents a cancelled or timed-out call.
// Aborted calls must not be retried.
func IsAbort(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
