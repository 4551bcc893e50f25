package encouragement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	text    string
	err     error
	delay   time.Duration
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.text, f.err
}

func TestNilGeneratorFallsBack(t *testing.T) {
	s := New(nil)
	assert.Equal(t, FallbackEncouragement, s.EncouragementFor(context.Background(), "물 마시기"))
	assert.Equal(t, FallbackSuggestion, s.SuggestChallenge(context.Background()))
}

func TestGeneratedTextIsTrimmed(t *testing.T) {
	gen := &fakeGenerator{text: "  잘하고 있어요.\n"}
	s := New(gen)

	assert.Equal(t, "잘하고 있어요.", s.EncouragementFor(context.Background(), "산책하기"))
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "산책하기")
}

func TestSuggestionStripsQuotes(t *testing.T) {
	s := New(&fakeGenerator{text: `"물 한 잔 천천히 마시기"`})
	assert.Equal(t, "물 한 잔 천천히 마시기", s.SuggestChallenge(context.Background()))
}

func TestErrorFallsBack(t *testing.T) {
	s := New(&fakeGenerator{err: errors.New("503 unavailable")})
	assert.Equal(t, FallbackEncouragement, s.EncouragementFor(context.Background(), "x"))
	assert.Equal(t, FallbackSuggestion, s.SuggestChallenge(context.Background()))
}

func TestEmptyReplyFallsBack(t *testing.T) {
	s := New(&fakeGenerator{text: "   "})
	assert.Equal(t, FallbackEncouragement, s.EncouragementFor(context.Background(), "x"))
}

func TestSlowGeneratorTimesOut(t *testing.T) {
	s := New(&fakeGenerator{text: "late", delay: 200 * time.Millisecond}, WithTimeout(20*time.Millisecond))

	start := time.Now()
	got := s.EncouragementFor(context.Background(), "x")
	assert.Equal(t, FallbackEncouragement, got)
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}

func TestRateLimitFallsBack(t *testing.T) {
	gen := &fakeGenerator{text: "좋아요"}
	s := New(gen, WithRateLimit(0.001, 1))

	assert.Equal(t, "좋아요", s.EncouragementFor(context.Background(), "a"))
	assert.Equal(t, FallbackEncouragement, s.EncouragementFor(context.Background(), "b"))
	assert.Len(t, gen.prompts, 1)
}

func TestGeminiGeneratorRequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), "", "")
	assert.Error(t, err)
}
