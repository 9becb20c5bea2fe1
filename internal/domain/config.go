package domain

import "time"

// SynthesisConfig holds answer-synthesis settings, not exposed to clients.
type SynthesisConfig struct {
	Model          string
	MaxTokens      int
	Temperature    float32
	Timeout        time.Duration
	ContextResults int // results fed into the prompt
	ExcerptRunes   int // per-result body cap
}

// DefaultSynthesisConfig returns settings tuned for short field-ready answers.
func DefaultSynthesisConfig() SynthesisConfig {
	return SynthesisConfig{
		Model:          "gpt-4o-mini",
		MaxTokens:      500,
		Temperature:    0.3,
		Timeout:        15 * time.Second,
		ContextResults: 5,
		ExcerptRunes:   500,
	}
}
