// Package store persists the three top-level records (user profile,
// challenge list, own feed posts) as JSON blobs under fixed keys.
package store

import (
	"context"
	"errors"
)

const (
	KeyUser       = "todok_user"
	KeyChallenges = "todok_challenges"
	KeyFeed       = "todok_feed"
)

var ErrNotFound = errors.New("store: key not found")

// BlobStore is a durable key-value store of whole serialized records.
// Writes always replace the full value.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}
