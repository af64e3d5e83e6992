package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/courtside/scorekeeper/internal/history"
)

// HistoryKey is the key the serialized history is stored under.
const HistoryKey = "basketballGameHistory"

// HistoryStore persists the full game history as a single blob.
type HistoryStore interface {
	// LoadHistory returns the stored history, most recent first. Nothing
	// stored and an unreadable blob both yield an empty history.
	LoadHistory(ctx context.Context) ([]history.Entry, error)
	// SaveHistory replaces the stored history. Readers see either the old
	// or the new history, never a mix.
	SaveHistory(ctx context.Context, h []history.Entry) error

	Close() error
}

// ClearHistory removes every saved game.
func ClearHistory(ctx context.Context, s HistoryStore) error {
	return s.SaveHistory(ctx, nil)
}

func encodeHistory(h []history.Entry) ([]byte, error) {
	if h == nil {
		h = []history.Entry{}
	}
	data, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("failed to encode history: %w", err)
	}
	return data, nil
}

// decodeHistory never fails: a malformed blob is logged and treated as empty.
func decodeHistory(log logrus.FieldLogger, backend string, data []byte) []history.Entry {
	if len(data) == 0 {
		return []history.Entry{}
	}
	var h []history.Entry
	if err := json.Unmarshal(data, &h); err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"backend": backend,
			"bytes":   len(data),
		}).Warn("Stored history is malformed, starting with an empty history")
		return []history.Entry{}
	}
	if h == nil {
		h = []history.Entry{}
	}
	return h
}
