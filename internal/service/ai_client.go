package service

import (
	"context"
)

// AIClient is the interface for OpenAI-compatible providers
type AIClient interface {
	// ChatCompletion performs a non-streaming chat completion
	ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)

	// CreateEmbeddings generates embeddings for texts
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)

	// IsEnabled returns whether the AI client is configured and ready
	IsEnabled() bool
}

// Advisor is the external advisory responder consulted on each free-text chat turn.
// The reply should be a JSON object {"response": ..., "insurance_criteria": {...}}
// but callers must tolerate plain text.
type Advisor interface {
	Advise(ctx context.Context, prompt string) (string, error)
}

// Ensure implementations satisfy their interfaces
var (
	_ AIClient = (*OpenAIClient)(nil)
	_ Advisor  = (*OpenAIAdvisor)(nil)
)
