// Package llm is the port to hosted language models: a provider
// interface, SDK-backed implementations, and retry, timeout and logging
// decorators.
package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one prompt to a model and returns its structured reply.
type Provider interface {
	// Generate performs a single request. When req.Schema is set the
	// provider asks for JSON output and validates the reply against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model this provider is configured to use.
	ModelID() string
}

// Request is one prompt.
type Request struct {
	System string

	// Messages holds the conversation; single-turn calls send one user
	// message.
	Messages []Message

	// Schema, when set, is the JSON Schema the reply must satisfy.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserMessage builds a single-turn message list.
func UserMessage(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}

// Schema names a JSON Schema for structured output.
type Schema struct {
	// Name is a kebab-case identifier, e.g. "tutor-explanation".
	Name        string
	Description string
	Definition  map[string]any
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response is a model reply.
type Response struct {
	// Content is the validated JSON object when a schema was requested,
	// otherwise the raw text.
	Content json.RawMessage

	Usage Usage

	// Model is the model that served the request.
	Model string

	// StopReason is StopEnd or StopMaxTokens.
	StopReason string
}

// Usage is the token accounting of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
