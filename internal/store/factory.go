package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

type Options struct {
	Backend     string
	DataDir     string
	DatabaseURL string
	SQLitePath  string
}

func Open(ctx context.Context, opts Options, logger *zap.Logger) (BlobStore, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile, "":
		return NewFileStore(opts.DataDir, logger)
	case BackendPostgres:
		return NewPostgresStore(ctx, opts.DatabaseURL, logger)
	case BackendSQLite:
		return NewSQLiteStore(opts.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", opts.Backend)
	}
}
