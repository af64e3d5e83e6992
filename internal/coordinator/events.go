package coordinator

import (
	"time"

	"github.com/courtside/scorekeeper/internal/history"
)

type Event interface {
	event() // marker method
}

// StateChanged follows every command that changed the game.
type StateChanged struct {
	Snapshot Snapshot
}

func (StateChanged) event() {}

// HistoryChanged carries a copy of the full history after a save, import or
// clear.
type HistoryChanged struct {
	History []history.Entry
}

func (HistoryChanged) event() {}

type GameStarted struct {
	GameID    string
	StartedAt time.Time
}

func (GameStarted) event() {}

type GameEnded struct {
	GameID string
}

func (GameEnded) event() {}

type GameSaved struct {
	Entry history.Entry
}

func (GameSaved) event() {}

type ActionUndone struct {
	Name string
	Kind string
}

func (ActionUndone) event() {}
