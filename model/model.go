// Package model defines the vendor-neutral contract for conversational turn
// generation used by the agent runner. Adapters for concrete providers live in
// sub-packages (openai, anthropic) so downstream logic does not need
// per-provider branching.
package model

import "context"

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn in a conversation transcript.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Request captures the normalized model input produced by the agent runner.
type Request struct {
	Instructions string    `json:"instructions"` // Instructions for the model
	Messages     []Message `json:"messages"`     // Prior transcript plus the current user turn
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the completed assistant turn returned by a model.
type Response struct {
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", etc.
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "local", etc.
}

// Model generates a single assistant turn for a conversation.
type Model interface {
	Generate(ctx context.Context, req Request) (Response, error)
	Info() Info
}
