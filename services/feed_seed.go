package services

import (
	"time"

	"todokAPI/internal/types/challenge"
	"todokAPI/internal/types/feed"
)

// SeedProvider supplies synthetic activity from other users.
type SeedProvider interface {
	Items(now time.Time) []feed.Item
}

// StaticSeed is the fixed set of three other-user posts, placed relative to now.
type StaticSeed struct{}

func (StaticSeed) Items(now time.Time) []feed.Item {
	return []feed.Item{
		{ID: "f1", ChallengeTitle: "따뜻한 차 마시기", Category: challenge.CategoryPositivity, Timestamp: now.Add(-100 * time.Second), Cheers: 3},
		{ID: "f2", ChallengeTitle: "책 2페이지 읽기", Category: challenge.CategoryLearning, Timestamp: now.Add(-500 * time.Second), Cheers: 12},
		{ID: "f3", ChallengeTitle: "창문 열고 환기", Category: challenge.CategoryPositivity, Timestamp: now.Add(-1200 * time.Second), Cheers: 5},
	}
}

type EmptySeed struct{}

func (EmptySeed) Items(now time.Time) []feed.Item { return nil }
