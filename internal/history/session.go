package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/courtside/scorekeeper/internal/apperr"
	"github.com/courtside/scorekeeper/internal/roster"
)

var ErrNoActiveSession = apperr.New(apperr.ErrState, "start a game before saving it")

// Session tracks whether a game is in progress and when it started.
type Session struct {
	id      string
	started time.Time
	active  bool
}

// Start begins a new game at now. Calling Start on an active session
// restarts it with a fresh timestamp.
func (s *Session) Start(now time.Time) {
	s.id = uuid.New().String()
	s.started = now
	s.active = true
}

// End returns to setup. The next Start stamps a new start time.
func (s *Session) End() {
	s.active = false
}

func (s *Session) Active() bool {
	return s.active
}

// ID identifies the current game for logging. Empty before the first Start.
func (s *Session) ID() string {
	return s.id
}

// StartedAt returns the start time of the active game.
func (s *Session) StartedAt() (time.Time, bool) {
	return s.started, s.active
}

// Save snapshots participants into a new entry. Stats are not reset and the
// session stays active, so repeated saves produce independent entries.
func (s *Session) Save(participants []*roster.Participant, now time.Time) (Entry, error) {
	if !s.active {
		return Entry{}, ErrNoActiveSession
	}
	return Snapshot(participants, s.started, now), nil
}
