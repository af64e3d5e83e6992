package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/courtside/scorekeeper/internal/history"
)

// RedisStore implements HistoryStore with a single Redis string key. SET
// replaces the value atomically, so readers never see a partial history.
type RedisStore struct {
	client *redis.Client
	key    string
	log    logrus.FieldLogger
}

// NewRedisStore connects to redisURL (redis://...) and stores history under
// key, or HistoryKey when key is empty.
func NewRedisStore(redisURL, key string, log logrus.FieldLogger) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return NewRedisStoreFromClient(redis.NewClient(opts), key, log), nil
}

func NewRedisStoreFromClient(client *redis.Client, key string, log logrus.FieldLogger) *RedisStore {
	if key == "" {
		key = HistoryKey
	}
	return &RedisStore{
		client: client,
		key:    key,
		log:    log.WithFields(logrus.Fields{"store": "redis", "key": key}),
	}
}

// Check reports whether Redis is reachable.
func (s *RedisStore) Check(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) LoadHistory(ctx context.Context) ([]history.Entry, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []history.Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return decodeHistory(s.log, "redis", data), nil
}

func (s *RedisStore) SaveHistory(ctx context.Context, h []history.Entry) error {
	data, err := encodeHistory(h)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
