// Package encouragement wraps the text-generation collaborator. Every call
// returns usable text: failures of any kind resolve to a fixed fallback.
package encouragement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"todokAPI/internal/metrics"
)

const (
	FallbackEncouragement = "한 걸음 더 나아간 당신을 응원해요."
	FallbackSuggestion    = "좋아하는 음악 한 곡 듣기"

	DefaultTimeout = 5 * time.Second
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	gen     Generator
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

type Option func(*Service)

func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRateLimit caps outbound calls; requests over the limit get the fallback.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Service) {
		if rps > 0 && burst > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New accepts a nil generator; the service then always falls back.
func New(gen Generator, opts ...Option) *Service {
	s := &Service{
		gen:     gen,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func encouragementPrompt(taskTitle string) string {
	return fmt.Sprintf(`User just completed a small self-care or study task: %q.
Provide a very short, warm, gentle, and healing one-sentence encouragement in Korean.
Tone: Calm, supportive, "it's okay to be slow". Do not use emojis.
Example: "조금씩 나아가는 당신의 모습이 참 멋져요."`, taskTitle)
}

const suggestionPrompt = `Suggest one very small, easy-to-do task for someone who is socially withdrawn or feeling low energy.
Category: Can be about tidying up, small study, or self-care.
Output: Just the task name in Korean. No explanation.
Example: "물 한 잔 천천히 마시기"`

// EncouragementFor returns a short supportive phrase for a completed task.
func (s *Service) EncouragementFor(ctx context.Context, taskTitle string) string {
	return s.generate(ctx, "encouragement", encouragementPrompt(taskTitle), FallbackEncouragement)
}

// SuggestChallenge returns a suggested next small task title.
func (s *Service) SuggestChallenge(ctx context.Context) string {
	text := s.generate(ctx, "suggestion", suggestionPrompt, FallbackSuggestion)
	return strings.Trim(text, `"'“”`)
}

func (s *Service) generate(ctx context.Context, kind, prompt, fallback string) string {
	if s.gen == nil {
		metrics.Encouragements.WithLabelValues(kind, "no_client").Inc()
		return fallback
	}
	if s.limiter != nil && !s.limiter.Allow() {
		metrics.Encouragements.WithLabelValues(kind, "rate_limited").Inc()
		s.logger.Debug("collaborator rate limited, using fallback", zap.String("kind", kind))
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := s.gen.Generate(ctx, prompt)
		done <- result{text, err}
	}()

	// a generator that ignores ctx still cannot hold the caller past the timeout
	select {
	case <-ctx.Done():
		metrics.Encouragements.WithLabelValues(kind, "timeout").Inc()
		s.logger.Warn("collaborator timed out, using fallback",
			zap.String("kind", kind), zap.Duration("timeout", s.timeout))
		return fallback
	case res := <-done:
		if res.err != nil {
			metrics.Encouragements.WithLabelValues(kind, "error").Inc()
			s.logger.Warn("collaborator failed, using fallback", zap.String("kind", kind), zap.Error(res.err))
			return fallback
		}
		text := strings.TrimSpace(res.text)
		if text == "" {
			metrics.Encouragements.WithLabelValues(kind, "empty").Inc()
			return fallback
		}
		metrics.Encouragements.WithLabelValues(kind, "generated").Inc()
		return text
	}
}
