package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"todokAPI/internal/metrics"
	"todokAPI/internal/store"
	"todokAPI/internal/types/challenge"
	"todokAPI/internal/types/feed"
)

// FeedService merges the user's own posts with seed content.
//
// Cheer is not idempotent here: it always adds one. Callers must track
// which items a viewer already cheered and skip repeats (see
// handlers.CheerGate), otherwise counts double.
type FeedService struct {
	repo *store.Repository
	seed SeedProvider

	mu         sync.Mutex
	seedCheers map[string]int // seed content is constant; cheers live here

	onChange func()
	now      func() time.Time
	logger   *zap.Logger
}

func NewFeedService(repo *store.Repository, seed SeedProvider, logger *zap.Logger) *FeedService {
	if seed == nil {
		seed = EmptySeed{}
	}
	return &FeedService{
		repo:       repo,
		seed:       seed,
		seedCheers: make(map[string]int),
		now:        time.Now,
		logger:     logger,
	}
}

func (s *FeedService) SetClock(now func() time.Time) {
	s.now = now
}

// SetChangeListener registers fn to run after every publish or cheer.
func (s *FeedService) SetChangeListener(fn func()) {
	s.onChange = fn
}

func (s *FeedService) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *FeedService) seedItems() []feed.Item {
	items := s.seed.Items(s.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range items {
		items[i].IsMine = false
		items[i].Cheers += s.seedCheers[items[i].ID]
	}
	return items
}

// List returns own posts and seed posts, most recent first. The merged view
// is rebuilt on every call.
func (s *FeedService) List(ctx context.Context) ([]feed.Item, error) {
	own, err := s.repo.Feed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}
	seed := s.seedItems()

	items := make([]feed.Item, 0, len(own)+len(seed))
	items = append(items, own...)
	items = append(items, seed...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	return items, nil
}

// Publish stores a snapshot of c's title and category as a new own post.
func (s *FeedService) Publish(ctx context.Context, c challenge.Challenge) (*feed.Item, error) {
	item := feed.Item{
		ID:             uuid.NewString(),
		ChallengeTitle: c.Title,
		Category:       c.Category,
		Timestamp:      s.now(),
		Cheers:         0,
		IsMine:         true,
	}
	_, err := s.repo.UpdateFeed(ctx, func(list []feed.Item) ([]feed.Item, error) {
		return append([]feed.Item{item}, list...), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to publish feed item: %w", err)
	}
	s.logger.Info("feed item published", zap.String("feedItemId", item.ID), zap.String("challengeId", c.ID))
	s.changed()
	return &item, nil
}

// Cheer adds exactly one cheer to the item with the given id.
func (s *FeedService) Cheer(ctx context.Context, id string) (*feed.Item, error) {
	var cheered feed.Item
	_, err := s.repo.UpdateFeed(ctx, func(list []feed.Item) ([]feed.Item, error) {
		for i := range list {
			if list[i].ID == id {
				list[i].Cheers++
				cheered = list[i]
				return list, nil
			}
		}
		return list, ErrFeedItemNotFound
	})
	if err == nil {
		metrics.FeedCheers.WithLabelValues("own").Inc()
		s.changed()
		return &cheered, nil
	}
	if !errors.Is(err, ErrFeedItemNotFound) {
		return nil, fmt.Errorf("failed to cheer: %w", err)
	}

	for _, item := range s.seed.Items(s.now()) {
		if item.ID != id {
			continue
		}
		s.mu.Lock()
		s.seedCheers[id]++
		item.Cheers += s.seedCheers[id]
		s.mu.Unlock()
		metrics.FeedCheers.WithLabelValues("seed").Inc()
		s.changed()
		return &item, nil
	}
	return nil, ErrFeedItemNotFound
}
