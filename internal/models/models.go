package models

import "fmt"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Tool is an OpenAI style tool definition. It is forwarded to the upstream
// verbatim, so the shape is left open.
type Tool map[string]any

// ChatRequest is a single chat exchange as issued by a caller.
type ChatRequest struct {
	Messages    []Message `json:"messages"`
	Model       string    `json:"model"`
	Stream      bool      `json:"stream"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
	Tools       []Tool    `json:"tools,omitzero"`
	// ProviderModel, when set, is sent as the provider model id instead of the
	// one mapped from Model.
	ProviderModel string `json:"-"`
	// EnableThinking overrides the thinking phase implied by Model.
	EnableThinking *bool `json:"enable_thinking,omitempty"`
}

// Result of a non-streaming exchange. Reasoning is nil when the model did not
// emit any thinking phase.
type Result struct {
	Content   string  `json:"content"`
	Reasoning *string `json:"reasoning_content"`
}

// LastOfRole returns the last Message with the given role, together with its index.
func (r *ChatRequest) LastOfRole(role string) (Message, int, error) {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		msg := r.Messages[i]
		if msg.Role == role {
			return msg, i, nil
		}
	}
	return Message{}, -1, fmt.Errorf("failed to find any %v message", role)
}

// SigningText is the content of the last user message, or the empty string
// if there is none.
func (r *ChatRequest) SigningText() string {
	msg, _, err := r.LastOfRole("user")
	if err != nil {
		return ""
	}
	return msg.Content
}
