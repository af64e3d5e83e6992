// Package history holds finished-game snapshots and folds them into season
// totals.
package history

import (
	"time"

	"github.com/courtside/scorekeeper/internal/roster"
	"github.com/courtside/scorekeeper/internal/stats"
)

// PlayerSnapshot is one participant's line in a saved game.
type PlayerSnapshot struct {
	Name         string       `json:"name"`
	Number       *int         `json:"number"`
	IsSubstitute bool         `json:"isSubstitute"`
	Stats        stats.Record `json:"stats"`
	Points       int          `json:"points"`
}

// ScoredPoints returns the stored points, recomputing them from the record
// when the stored value is zero. Older exports left points unset.
func (s PlayerSnapshot) ScoredPoints() int {
	if s.Points != 0 {
		return s.Points
	}
	return stats.Points(s.Stats)
}

// Entry is an immutable snapshot of one saved game.
type Entry struct {
	ID        int64            `json:"id"`
	Date      time.Time        `json:"date"`
	EndDate   time.Time        `json:"endDate"`
	TeamScore int              `json:"teamScore"`
	Players   []PlayerSnapshot `json:"players"`
}

// Snapshot builds an entry from the current participants. ID is the save
// time in unix milliseconds.
func Snapshot(participants []*roster.Participant, start, end time.Time) Entry {
	e := Entry{
		ID:      end.UnixMilli(),
		Date:    start,
		EndDate: end,
		Players: make([]PlayerSnapshot, 0, len(participants)),
	}
	for _, p := range participants {
		pts := stats.Points(p.Stats)
		var number *int
		if p.Number != nil {
			n := *p.Number
			number = &n
		}
		e.Players = append(e.Players, PlayerSnapshot{
			Name:         p.Name,
			Number:       number,
			IsSubstitute: p.IsSubstitute,
			Stats:        p.Stats,
			Points:       pts,
		})
		e.TeamScore += pts
	}
	return e
}

// Prepend returns a new history with e in front. The input is not modified.
func Prepend(h []Entry, e Entry) []Entry {
	out := make([]Entry, 0, len(h)+1)
	out = append(out, e)
	return append(out, h...)
}
