package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"todokAPI/internal/metrics"
	"todokAPI/internal/progression"
	"todokAPI/internal/store"
	"todokAPI/internal/types/user"
)

type UserService struct {
	repo   *store.Repository
	levels progression.Table
	now    func() time.Time
	logger *zap.Logger
}

func NewUserService(repo *store.Repository, levels progression.Table, logger *zap.Logger) *UserService {
	return &UserService{
		repo:   repo,
		levels: levels,
		now:    time.Now,
		logger: logger,
	}
}

func (s *UserService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *UserService) Levels() progression.Table {
	return s.levels
}

func (s *UserService) Progress(u user.User) progression.Progress {
	return s.levels.Progress(u)
}

func (s *UserService) GetUser(ctx context.Context) (*user.User, error) {
	u, err := s.repo.User(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (s *UserService) UpdateUser(ctx context.Context, req *user.UpdateUserRequest) (*user.User, error) {
	u, err := s.repo.UpdateUser(ctx, func(u *user.User) error {
		req.Apply(u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &u, nil
}

func (s *UserService) CompleteOnboarding(ctx context.Context) (*user.User, error) {
	onboarded := true
	return s.UpdateUser(ctx, &user.UpdateUserRequest{IsOnboarded: &onboarded})
}

func (s *UserService) ToggleRestMode(ctx context.Context) (*user.User, error) {
	u, err := s.repo.UpdateUser(ctx, func(u *user.User) error {
		u.IsRestMode = !u.IsRestMode
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle rest mode: %w", err)
	}
	s.logger.Info("rest mode toggled", zap.Bool("restMode", u.IsRestMode))
	return &u, nil
}

// ApplyReward adds xpDelta to the stored user and recomputes the level.
func (s *UserService) ApplyReward(ctx context.Context, xpDelta int) (*user.User, progression.Transition, error) {
	var tr progression.Transition
	u, err := s.repo.UpdateUser(ctx, func(u *user.User) error {
		*u, tr = s.levels.ApplyReward(*u, xpDelta)
		return nil
	})
	if err != nil {
		return nil, tr, fmt.Errorf("failed to apply reward: %w", err)
	}
	s.recordTransition(tr)
	return &u, tr, nil
}

// RecordCompletion awards xp and counts the day toward the streak in one write.
func (s *UserService) RecordCompletion(ctx context.Context, xpDelta int, at time.Time) (*user.User, progression.Transition, error) {
	var tr progression.Transition
	u, err := s.repo.UpdateUser(ctx, func(u *user.User) error {
		*u, tr = s.levels.ApplyReward(*u, xpDelta)
		recordActivity(u, at)
		return nil
	})
	if err != nil {
		return nil, tr, fmt.Errorf("failed to record completion: %w", err)
	}
	s.recordTransition(tr)
	return &u, tr, nil
}

func (s *UserService) recordTransition(tr progression.Transition) {
	metrics.XPAwarded.Add(float64(tr.XPAwarded))
	if tr.LeveledUp {
		metrics.LevelUps.Inc()
		s.logger.Info("level up", zap.Int("from", tr.FromLevel), zap.Int("to", tr.ToLevel))
	}
}

// recordActivity extends the streak on consecutive days and restarts it
// after a gap. Repeat activity on the same day changes nothing.
func recordActivity(u *user.User, at time.Time) {
	today := at.Format(user.DateLayout)
	if u.LastActiveDate == today {
		return
	}
	yesterday := at.AddDate(0, 0, -1).Format(user.DateLayout)
	if u.LastActiveDate == yesterday {
		u.Streak++
	} else {
		u.Streak = 1
	}
	u.LastActiveDate = today
}
