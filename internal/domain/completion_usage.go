package domain

import "context"

type completionUsageKey struct{}

// CompletionUsage collects completion token usage for a single HTTP request.
// The handler puts a mutable pointer into the context before calling the pipeline;
// the synthesizer writes after the completion call; the handler reads it for response headers.
type CompletionUsage struct {
	PromptTokens int
	TotalTokens  int
	Used         bool // true if the completion service was called, even when it failed
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *CompletionUsage) {
	u := &CompletionUsage{}
	return context.WithValue(ctx, completionUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *CompletionUsage {
	u, _ := ctx.Value(completionUsageKey{}).(*CompletionUsage)
	return u
}

// MarkCalled records that the completion service was invoked.
func (u *CompletionUsage) MarkCalled() {
	if u != nil {
		u.Used = true
	}
}

// AddTokens records consumed tokens.
func (u *CompletionUsage) AddTokens(prompt, total int) {
	if u != nil {
		u.PromptTokens += prompt
		u.TotalTokens += total
		u.Used = true
	}
}
