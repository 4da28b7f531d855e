package llm

import "context"

// Provider is the minimal surface the analyzer needs from an LLM backend:
// one prompt in, one text completion out. Retry, parsing, and validation
// all live above this interface so providers stay thin.
type Provider interface {
	// Name identifies the backend ("anthropic", "openai") for metadata.
	Name() string

	// Model returns the resolved model identifier in use.
	Model() string

	// Complete sends a single-turn prompt and returns the raw text response.
	Complete(ctx context.Context, prompt string, maxTokens int) (*Completion, error)
}

// Completion is one raw provider response plus its token accounting.
type Completion struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
}
