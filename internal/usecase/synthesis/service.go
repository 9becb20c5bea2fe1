// Package synthesis turns ranked protocol results into a short answer via an
// external completion service. It never fails a request: every problem
// degrades to an unavailable answer.
package synthesis

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/protoguide/protoguide/internal/domain"
	"github.com/protoguide/protoguide/internal/domain/answer"
	"github.com/protoguide/protoguide/internal/domain/search/result"
	"github.com/protoguide/protoguide/internal/logger"
	"github.com/protoguide/protoguide/internal/metrics"
)

// Reasons reported on unavailable answers.
const (
	ReasonNoResults   = "no results"
	ReasonRateLimited = "rate limited"
	ReasonEmpty       = "empty completion"
	ReasonFailed      = "completion failed"
	ReasonTimeout     = "completion timed out"
	ReasonDisabled    = "synthesis disabled"
)

var errEmptyCompletion = errors.New("completion returned no text")

// Service synthesizes answers.
type Service struct {
	completer domain.Completer
	cfg       domain.SynthesisConfig
	limiter   *rate.Limiter
}

// Option configures a Service.
type Option func(*Service)

// WithLimiter bounds outbound completion calls. A refused call yields an
// unavailable answer instead of waiting.
func WithLimiter(l *rate.Limiter) Option {
	return func(s *Service) { s.limiter = l }
}

// New creates a synthesis service. completer may be nil, in which case every
// answer is unavailable.
func New(completer domain.Completer, cfg domain.SynthesisConfig, opts ...Option) *Service {
	def := domain.DefaultSynthesisConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.ContextResults <= 0 {
		cfg.ContextResults = def.ContextResults
	}
	if cfg.ExcerptRunes <= 0 {
		cfg.ExcerptRunes = def.ExcerptRunes
	}

	s := &Service{completer: completer, cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize returns Available(text) or Unavailable(reason).
func (s *Service) Synthesize(ctx context.Context, query string, results []result.Result) answer.Answer {
	log := logger.FromContext(ctx)

	if len(results) == 0 {
		metrics.SynthesisOutcomesTotal.WithLabelValues("no_results").Inc()
		return answer.Unavailable(ReasonNoResults)
	}
	if s.completer == nil {
		metrics.SynthesisOutcomesTotal.WithLabelValues("disabled").Inc()
		return answer.Unavailable(ReasonDisabled)
	}
	if s.limiter != nil && !s.limiter.Allow() {
		metrics.SynthesisOutcomesTotal.WithLabelValues("rate_limited").Inc()
		log.Warn("Synthesis skipped by local rate limiter")
		return answer.Unavailable(ReasonRateLimited)
	}

	req := domain.CompletionRequest{
		System:      SystemPrompt,
		User:        BuildUserPrompt(query, BuildContext(results, s.cfg.ContextResults, s.cfg.ExcerptRunes)),
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	usage := domain.UsageFromContext(ctx)
	usage.MarkCalled()

	res, err := s.completer.Complete(callCtx, req)
	if err == nil && strings.TrimSpace(res.Text) == "" {
		err = errEmptyCompletion
	}
	if err != nil {
		reason := ReasonFailed
		switch {
		case errors.Is(err, errEmptyCompletion):
			reason = ReasonEmpty
		case errors.Is(err, context.DeadlineExceeded):
			reason = ReasonTimeout
		}
		metrics.SynthesisOutcomesTotal.WithLabelValues("failed").Inc()
		log.Warn("Answer synthesis unavailable",
			zap.String("model", s.cfg.Model),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return answer.Unavailable(reason)
	}

	usage.AddTokens(res.PromptTokens, res.TotalTokens)
	metrics.SynthesisOutcomesTotal.WithLabelValues("available").Inc()
	return answer.Available(res.Text)
}
