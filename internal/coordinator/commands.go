package coordinator

import (
	"github.com/courtside/scorekeeper/internal/history"
	"github.com/courtside/scorekeeper/internal/lineup"
	"github.com/courtside/scorekeeper/internal/roster"
	"github.com/courtside/scorekeeper/internal/stats"
	"github.com/courtside/scorekeeper/internal/tracker"
	"github.com/courtside/scorekeeper/internal/transfer"
)

// Command is the interface for all commands sent to the coordinator.
type Command interface {
	command() // marker method
}

// Reply carries a command result together with its error.
type Reply[T any] struct {
	Value T
	Err   error
}

// AddSubstitute adds an ad-hoc player to the game.
type AddSubstitute struct {
	Name     string
	Number   *int
	Response chan Reply[roster.Participant]
}

func (AddSubstitute) command() {}

// RemoveSubstitute deletes a substitute and takes them off the court.
type RemoveSubstitute struct {
	ID       int
	Response chan error
}

func (RemoveSubstitute) command() {}

// SetNumber assigns or clears a jersey number.
type SetNumber struct {
	ID       int
	Number   *int
	Response chan error
}

func (SetNumber) command() {}

// RequestMove moves a player between bench and court. The reply holds the
// opened swap when the move needs a partner.
type RequestMove struct {
	ID       int
	Response chan Reply[*lineup.PendingSwap]
}

func (RequestMove) command() {}

// ConfirmSwap completes the pending swap with the chosen candidate.
type ConfirmSwap struct {
	CandidateID int
	Response    chan error
}

func (ConfirmSwap) command() {}

// CancelSwap drops the pending swap.
type CancelSwap struct {
	Response chan error
}

func (CancelSwap) command() {}

// ApplyStatDelta moves a single counter by +1 or -1.
type ApplyStatDelta struct {
	ID       int
	Counter  stats.Counter
	Delta    int
	Response chan error
}

func (ApplyStatDelta) command() {}

// RecordShot records a made or missed shot, optionally assisted.
type RecordShot struct {
	ID       int
	Category stats.ShotCategory
	Made     bool
	AssistID *int
	Response chan error
}

func (RecordShot) command() {}

// BeginAssistedShot opens the assist prompt for a made shot. Candidates are
// the scorer's teammates on the court.
type BeginAssistedShot struct {
	ID       int
	Category stats.ShotCategory
	Response chan Reply[*tracker.PendingAssist]
}

func (BeginAssistedShot) command() {}

// ConfirmAssist records the pending shot, credited to AssistID if set.
type ConfirmAssist struct {
	AssistID *int
	Response chan error
}

func (ConfirmAssist) command() {}

// CancelAssist drops the pending shot.
type CancelAssist struct {
	Response chan error
}

func (CancelAssist) command() {}

// UndoLastShot takes back a player's latest shot in one category.
type UndoLastShot struct {
	ID       int
	Category stats.ShotCategory
	Response chan error
}

func (UndoLastShot) command() {}

// RecordRebound adds a defensive or offensive rebound.
type RecordRebound struct {
	ID       int
	Kind     stats.ReboundKind
	Response chan error
}

func (RecordRebound) command() {}

// DecrementRebound removes one rebound, defensive first.
type DecrementRebound struct {
	ID       int
	Response chan error
}

func (DecrementRebound) command() {}

// EditStats replaces a player's record. The error is a
// *tracker.CorrectionRequiredError when attempts must be raised first.
type EditStats struct {
	ID       int
	Stats    stats.Record
	Response chan error
}

func (EditStats) command() {}

// UndoLastAction reverts the newest logged action. The reply is the name of
// the affected player.
type UndoLastAction struct {
	Response chan Reply[string]
}

func (UndoLastAction) command() {}

// ResetStats zeroes every record.
type ResetStats struct {
	Response chan error
}

func (ResetStats) command() {}

// StartGame begins a game session.
type StartGame struct {
	Response chan error
}

func (StartGame) command() {}

// EndGame returns to setup.
type EndGame struct {
	Response chan error
}

func (EndGame) command() {}

// SaveGame snapshots the current game into history.
type SaveGame struct {
	Response chan Reply[history.Entry]
}

func (SaveGame) command() {}

// ImportHistory merges imported games into history. The reply is the new
// history size.
type ImportHistory struct {
	Games    []history.Entry
	Mode     transfer.Mode
	Response chan Reply[int]
}

func (ImportHistory) command() {}

// ClearHistory deletes every saved game.
type ClearHistory struct {
	Response chan error
}

func (ClearHistory) command() {}
