package services

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"todokAPI/internal/progression"
	"todokAPI/internal/store"
)

type testEnv struct {
	repo       *store.Repository
	users      *UserService
	feed       *FeedService
	challenges *ChallengeService
	now        time.Time
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestEnv(t *testing.T, autoPublish bool) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	repo := store.NewRepository(store.NewMemoryStore(), logger)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

	users := NewUserService(repo, progression.DefaultLevels, logger)
	users.SetClock(fixedClock(now))
	feedSvc := NewFeedService(repo, StaticSeed{}, logger)
	feedSvc.SetClock(fixedClock(now))
	challenges := NewChallengeService(repo, users, feedSvc, autoPublish, logger)
	challenges.SetClock(fixedClock(now))

	return &testEnv{repo: repo, users: users, feed: feedSvc, challenges: challenges, now: now}
}

func (e *testEnv) ctx() context.Context {
	return context.Background()
}

func (e *testEnv) setNow(now time.Time) {
	e.now = now
	e.users.SetClock(fixedClock(now))
	e.feed.SetClock(fixedClock(now))
	e.challenges.SetClock(fixedClock(now))
}
