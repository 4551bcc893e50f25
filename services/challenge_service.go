package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"todokAPI/internal/metrics"
	"todokAPI/internal/progression"
	"todokAPI/internal/store"
	"todokAPI/internal/types/challenge"
	"todokAPI/internal/types/feed"
	"todokAPI/internal/types/user"
)

// PublishPolicy decides whether a reflection also posts to the feed.
type PublishPolicy int

const (
	KeepPrivate PublishPolicy = iota
	PublishToFeed
)

type CompletionResult struct {
	Challenge  challenge.Challenge    `json:"challenge"`
	User       user.User              `json:"user"`
	Transition progression.Transition `json:"transition"`
	Progress   progression.Progress   `json:"progress"`
}

type ChallengeService struct {
	repo          *store.Repository
	users         *UserService
	feed          *FeedService
	defaultPolicy PublishPolicy
	now           func() time.Time
	logger        *zap.Logger
}

// NewChallengeService; autoPublish sets the default reflection policy.
func NewChallengeService(repo *store.Repository, users *UserService, feed *FeedService, autoPublish bool, logger *zap.Logger) *ChallengeService {
	policy := KeepPrivate
	if autoPublish {
		policy = PublishToFeed
	}
	return &ChallengeService{
		repo:          repo,
		users:         users,
		feed:          feed,
		defaultPolicy: policy,
		now:           time.Now,
		logger:        logger,
	}
}

func (s *ChallengeService) SetClock(now func() time.Time) {
	s.now = now
}

// PolicyFor resolves an optional per-request override against the default.
func (s *ChallengeService) PolicyFor(override *bool) PublishPolicy {
	if override == nil {
		return s.defaultPolicy
	}
	if *override {
		return PublishToFeed
	}
	return KeepPrivate
}

func (s *ChallengeService) List(ctx context.Context) ([]challenge.Challenge, error) {
	list, err := s.repo.Challenges(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	return list, nil
}

// Board splits the list into active and completed, keeping newest-first order.
func (s *ChallengeService) Board(ctx context.Context) (*challenge.ChallengeBoard, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	board := &challenge.ChallengeBoard{
		Active:    []challenge.Challenge{},
		Completed: []challenge.Challenge{},
	}
	for _, c := range list {
		if c.Completed {
			board.Completed = append(board.Completed, c)
		} else {
			board.Active = append(board.Active, c)
		}
	}
	return board, nil
}

func (s *ChallengeService) Create(ctx context.Context, title string, category challenge.Category) (*challenge.Challenge, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	c := challenge.Challenge{
		ID:        uuid.NewString(),
		Title:     title,
		Category:  category,
		XPReward:  challenge.XPReward,
		Completed: false,
	}

	_, err := s.repo.UpdateChallenges(ctx, func(list []challenge.Challenge) ([]challenge.Challenge, error) {
		return append([]challenge.Challenge{c}, list...), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	metrics.ChallengesCreated.WithLabelValues(string(category)).Inc()
	s.logger.Info("challenge created", zap.String("challengeId", c.ID), zap.String("category", string(category)))
	return &c, nil
}

// Complete moves a challenge to completed and awards its XP. The transition
// happens once; a second call fails with ErrAlreadyCompleted and awards nothing.
func (s *ChallengeService) Complete(ctx context.Context, id string) (*CompletionResult, error) {
	now := s.now()
	var completed challenge.Challenge

	_, err := s.repo.UpdateChallenges(ctx, func(list []challenge.Challenge) ([]challenge.Challenge, error) {
		i := challenge.Find(list, id)
		if i < 0 {
			return list, ErrChallengeNotFound
		}
		if list[i].Completed {
			return list, ErrAlreadyCompleted
		}
		list[i].Completed = true
		list[i].CompletedAt = &now
		completed = list[i]
		return list, nil
	})
	if err != nil {
		if errors.Is(err, ErrChallengeNotFound) || errors.Is(err, ErrAlreadyCompleted) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to complete challenge: %w", err)
	}

	u, tr, err := s.users.RecordCompletion(ctx, completed.XPReward, now)
	if err != nil {
		s.logger.Error("challenge completed but reward was not saved",
			zap.String("challengeId", id), zap.Error(err))
		return nil, err
	}

	metrics.ChallengesCompleted.WithLabelValues(string(completed.Category)).Inc()
	s.logger.Info("challenge completed",
		zap.String("challengeId", id),
		zap.Int("xp", u.XP),
		zap.Int("level", u.Level))

	return &CompletionResult{
		Challenge:  completed,
		User:       *u,
		Transition: tr,
		Progress:   s.users.Progress(*u),
	}, nil
}

// Reflect attaches or overwrites the reflection. Under PublishToFeed every
// call appends a new feed snapshot; earlier posts are never removed.
func (s *ChallengeService) Reflect(ctx context.Context, id, text string, policy PublishPolicy) (*challenge.Challenge, *feed.Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil, ErrEmptyReflection
	}

	var reflected challenge.Challenge
	_, err := s.repo.UpdateChallenges(ctx, func(list []challenge.Challenge) ([]challenge.Challenge, error) {
		i := challenge.Find(list, id)
		if i < 0 {
			return list, ErrChallengeNotFound
		}
		list[i].Reflection = text
		reflected = list[i]
		return list, nil
	})
	if err != nil {
		if errors.Is(err, ErrChallengeNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to save reflection: %w", err)
	}

	published := policy == PublishToFeed
	metrics.Reflections.WithLabelValues(strconv.FormatBool(published)).Inc()
	if !published {
		return &reflected, nil, nil
	}

	item, err := s.feed.Publish(ctx, reflected)
	if err != nil {
		return &reflected, nil, err
	}
	return &reflected, item, nil
}
