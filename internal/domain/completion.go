package domain

import "context"

// Completer is the shared text-completion contract between layers.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}

// HealthChecker verifies an external provider is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CompletionRequest is one system+user chat turn with sampling settings.
type CompletionRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// CompletionResult carries the generated text and token usage.
type CompletionResult struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
