package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"todokAPI/internal/progression"
	"todokAPI/internal/types/challenge"
	"todokAPI/internal/types/feed"
	"todokAPI/internal/types/user"
)

// Repository is the single in-process access path to the stored records.
// Every mutation is a full read-modify-write serialized behind one mutex.
type Repository struct {
	blobs  BlobStore
	mu     sync.Mutex
	logger *zap.Logger
}

func NewRepository(blobs BlobStore, logger *zap.Logger) *Repository {
	return &Repository{blobs: blobs, logger: logger}
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.blobs.Ping(ctx)
}

func (r *Repository) Close() error {
	return r.blobs.Close()
}

// load decodes key into a fresh value. Absent or malformed blobs, including
// well-formed JSON with mistyped fields, yield def.
func load[T any](ctx context.Context, r *Repository, key string, def T) (T, error) {
	data, err := r.blobs.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return def, nil
		}
		return def, err
	}
	var decoded T
	if err := json.Unmarshal(data, &decoded); err != nil {
		r.logger.Warn("discarding malformed record, using defaults",
			zap.String("key", key), zap.Error(err))
		return def, nil
	}
	return decoded, nil
}

func (r *Repository) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	return r.blobs.Put(ctx, key, data)
}

func (r *Repository) loadUser(ctx context.Context) (user.User, error) {
	u, err := load(ctx, r, KeyUser, user.Default())
	if err != nil {
		return user.Default(), err
	}
	if u.XP < 0 {
		u.XP = 0
	}
	// level never trails the xp it was earned with
	if lvl := progression.DefaultLevels.LevelFor(u.XP); u.Level < lvl {
		u.Level = lvl
	}
	return u, nil
}

func (r *Repository) loadChallenges(ctx context.Context) ([]challenge.Challenge, error) {
	list, err := load[[]challenge.Challenge](ctx, r, KeyChallenges, nil)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []challenge.Challenge{}
	}
	return list, nil
}

func (r *Repository) loadFeed(ctx context.Context) ([]feed.Item, error) {
	list, err := load[[]feed.Item](ctx, r, KeyFeed, nil)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []feed.Item{}
	}
	return list, nil
}

func (r *Repository) User(ctx context.Context) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadUser(ctx)
}

// UpdateUser applies fn to the stored user and writes it back. If fn
// returns an error nothing is written.
func (r *Repository) UpdateUser(ctx context.Context, fn func(u *user.User) error) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, err := r.loadUser(ctx)
	if err != nil {
		return u, err
	}
	if err := fn(&u); err != nil {
		return u, err
	}
	if err := r.save(ctx, KeyUser, u); err != nil {
		return u, err
	}
	return u, nil
}

func (r *Repository) Challenges(ctx context.Context) ([]challenge.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadChallenges(ctx)
}

// UpdateChallenges replaces the stored list with the one fn returns.
func (r *Repository) UpdateChallenges(ctx context.Context, fn func(list []challenge.Challenge) ([]challenge.Challenge, error)) ([]challenge.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.loadChallenges(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := fn(list)
	if err != nil {
		return list, err
	}
	if err := r.save(ctx, KeyChallenges, updated); err != nil {
		return list, err
	}
	return updated, nil
}

func (r *Repository) Feed(ctx context.Context) ([]feed.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadFeed(ctx)
}

// UpdateFeed replaces the stored own-posts list with the one fn returns.
func (r *Repository) UpdateFeed(ctx context.Context, fn func(list []feed.Item) ([]feed.Item, error)) ([]feed.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.loadFeed(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := fn(list)
	if err != nil {
		return list, err
	}
	if err := r.save(ctx, KeyFeed, updated); err != nil {
		return list, err
	}
	return updated, nil
}
