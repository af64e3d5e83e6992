package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/scorekeeper/internal/history"
	"github.com/courtside/scorekeeper/internal/stats"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func openSQLite(t *testing.T, log logrus.FieldLogger) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "courtside.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleHistory() []history.Entry {
	start := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	return []history.Entry{
		{ID: 2, Date: start.Add(24 * time.Hour), EndDate: start.Add(25 * time.Hour), TeamScore: 4, Players: []history.PlayerSnapshot{
			{Name: "Cris", Stats: stats.Record{TwoPointMade: 2, TwoPointAttempted: 5}, Points: 4},
		}},
		{ID: 1, Date: start, EndDate: start.Add(time.Hour), TeamScore: 0, Players: []history.PlayerSnapshot{}},
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t, quietLogger())

	h, err := s.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, h)
	assert.NotNil(t, h)

	_, ok, err := s.UpdatedAt(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SaveHistory(ctx, sampleHistory()))
	h, err = s.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleHistory(), h)

	_, ok, err = s.UpdatedAt(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	// Full replace, not merge.
	require.NoError(t, s.SaveHistory(ctx, sampleHistory()[1:]))
	h, err = s.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.Equal(t, int64(1), h[0].ID)

	require.NoError(t, ClearHistory(ctx, s))
	h, err = s.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, h)

	assert.NoError(t, s.Check(ctx))
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "courtside.db")

	s, err := NewSQLiteStore(path, quietLogger())
	require.NoError(t, err)
	require.NoError(t, s.SaveHistory(ctx, sampleHistory()))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path, quietLogger())
	require.NoError(t, err)
	defer s.Close()

	h, err := s.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, h, 2)
}

func TestSQLiteStoreMalformedBlob(t *testing.T) {
	ctx := context.Background()
	log, hook := test.NewNullLogger()
	s := openSQLite(t, log)

	require.NoError(t, s.putRaw(ctx, []byte(`{"not":"a list"`)))

	h, err := s.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, h)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "sqlite", hook.LastEntry().Data["backend"])
}

func TestDecodeHistoryNull(t *testing.T) {
	h := decodeHistory(quietLogger(), "test", []byte("null"))
	assert.NotNil(t, h)
	assert.Empty(t, h)
}

func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         "localhost:1",
		DialTimeout:  10 * time.Millisecond,
		ReadTimeout:  10 * time.Millisecond,
		WriteTimeout: 10 * time.Millisecond,
		MaxRetries:   0,
	})
}

func TestRedisStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	s := NewRedisStoreFromClient(deadRedis(), "", quietLogger())
	defer s.Close()

	assert.Equal(t, HistoryKey, s.key)
	assert.Error(t, s.Check(ctx))

	_, err := s.LoadHistory(ctx)
	assert.ErrorContains(t, err, "failed to load history")

	err = s.SaveHistory(ctx, sampleHistory())
	assert.ErrorContains(t, err, "failed to save history")
}

func TestNewRedisStoreBadURL(t *testing.T) {
	_, err := NewRedisStore("not a url", "", quietLogger())
	assert.Error(t, err)

	s, err := NewRedisStore("redis://localhost:1/2", "team:history", quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "team:history", s.key)
	require.NoError(t, s.Close())
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "courtside.db")
	b, err := Open(Options{Backend: "sqlite", DatabasePath: path}, quietLogger())
	require.NoError(t, err)
	defer b.Close()
	assert.IsType(t, &SQLiteStore{}, b)
	assert.NoError(t, b.Check(context.Background()))

	r, err := Open(Options{Backend: "redis", RedisURL: "redis://localhost:6399/0"}, quietLogger())
	require.NoError(t, err)
	defer r.Close()
	assert.IsType(t, &RedisStore{}, r)

	_, err = Open(Options{Backend: "redis", RedisURL: "http://nope"}, quietLogger())
	assert.Error(t, err)

	_, err = Open(Options{Backend: "postgres"}, quietLogger())
	assert.ErrorContains(t, err, "unknown store backend")
}
