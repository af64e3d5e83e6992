package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Backend is a HistoryStore that can report whether it is reachable.
type Backend interface {
	HistoryStore
	Check(ctx context.Context) error
}

// Options selects and configures a backend.
type Options struct {
	Backend      string // "sqlite" or "redis"
	DatabasePath string
	RedisURL     string
	RedisKey     string
}

// Open creates the configured backend. For SQLite the database directory is
// created when missing.
func Open(opts Options, log logrus.FieldLogger) (Backend, error) {
	switch opts.Backend {
	case "", "sqlite":
		if dir := filepath.Dir(opts.DatabasePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		return NewSQLiteStore(opts.DatabasePath, log)
	case "redis":
		return NewRedisStore(opts.RedisURL, opts.RedisKey, log)
	}
	return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
}
