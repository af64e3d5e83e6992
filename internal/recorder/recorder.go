// Package recorder writes the game history to the configured store whenever
// the coordinator reports a change.
package recorder

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/courtside/scorekeeper/internal/coordinator"
	"github.com/courtside/scorekeeper/internal/history"
	"github.com/courtside/scorekeeper/internal/store"
)

const saveTimeout = 10 * time.Second

// Recorder saves history changes to a HistoryStore.
type Recorder struct {
	store store.HistoryStore
	log   logrus.FieldLogger
}

// New creates a new history recorder.
func New(s store.HistoryStore, log logrus.FieldLogger) *Recorder {
	return &Recorder{store: s, log: log.WithField("component", "recorder")}
}

// Wants reports whether the recorder handles e. Pass it to
// Coordinator.SubscribeTo so state updates cannot crowd out history changes.
func Wants(e coordinator.Event) bool {
	switch e.(type) {
	case coordinator.HistoryChanged, coordinator.GameSaved:
		return true
	}
	return false
}

// Run listens for history events and persists them. It returns when ctx is
// cancelled or events is closed.
func (r *Recorder) Run(ctx context.Context, events <-chan coordinator.Event) {
	r.log.Info("History recorder started")
	for {
		select {
		case <-ctx.Done():
			r.log.Info("History recorder shutting down")
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			r.handleEvent(ctx, event)
		}
	}
}

func (r *Recorder) handleEvent(ctx context.Context, event coordinator.Event) {
	switch e := event.(type) {
	case coordinator.HistoryChanged:
		r.save(ctx, e.History)
	case coordinator.GameSaved:
		r.log.WithFields(logrus.Fields{
			"game":    e.Entry.ID,
			"players": len(e.Entry.Players),
		}).Infof("Recording game with %d points", e.Entry.TeamScore)
	}
}

// save writes the whole history. Failures are logged; the in-memory history
// stays authoritative and the next change writes it again.
func (r *Recorder) save(ctx context.Context, h []history.Entry) {
	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()

	if err := r.store.SaveHistory(ctx, h); err != nil {
		r.log.WithError(err).Errorf("Failed to save history (%d games)", len(h))
		return
	}
	r.log.Debugf("Saved history (%d games)", len(h))
}
