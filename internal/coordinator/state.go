package coordinator

import (
	"time"

	"github.com/courtside/scorekeeper/internal/history"
	"github.com/courtside/scorekeeper/internal/lineup"
	"github.com/courtside/scorekeeper/internal/roster"
	"github.com/courtside/scorekeeper/internal/stats"
	"github.com/courtside/scorekeeper/internal/tracker"
)

// State is everything the operator works on. Only the coordinator goroutine
// touches it.
type State struct {
	Roster  *roster.Roster
	Lineup  *lineup.Tracker
	Engine  *tracker.Engine
	Session history.Session
	History []history.Entry
	Season  []string // names included in season totals
}

// NewState builds the game state for a team, starting from a previously
// saved history.
func NewState(members []roster.Member, season []string, saved []history.Entry) (*State, error) {
	r, err := roster.New(members)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		saved = []history.Entry{}
	}
	return &State{
		Roster:  r,
		Lineup:  lineup.New(r),
		Engine:  tracker.New(r),
		History: saved,
		Season:  season,
	}, nil
}

// ParticipantView is a participant as shown to the operator.
type ParticipantView struct {
	roster.Participant
	Points        int  `json:"points"`
	TotalRebounds int  `json:"totalRebounds"`
	OnCourt       bool `json:"onCourt"`
}

// Snapshot is a read-only copy of the state sent to views.
type Snapshot struct {
	GameActive    bool                   `json:"gameActive"`
	GameID        string                 `json:"gameId,omitempty"`
	StartedAt     *time.Time             `json:"startedAt,omitempty"`
	TeamScore     int                    `json:"teamScore"`
	Participants  []ParticipantView      `json:"participants"`
	OnCourt       []int                  `json:"onCourt"`
	Bench         []int                  `json:"bench"`
	PendingSwap   *lineup.PendingSwap    `json:"pendingSwap"`
	PendingAssist *tracker.PendingAssist `json:"pendingAssist"`
	ActionLogSize int                    `json:"actionLogSize"`
	HistorySize   int                    `json:"historySize"`
}

func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		GameActive:    s.Session.Active(),
		OnCourt:       s.Lineup.OnCourt(),
		Bench:         s.Lineup.Bench(),
		PendingSwap:   s.Lineup.Pending(),
		PendingAssist: s.Engine.PendingAssist(),
		ActionLogSize: s.Engine.LogSize(),
		HistorySize:   len(s.History),
	}
	if started, ok := s.Session.StartedAt(); ok {
		snap.GameID = s.Session.ID()
		snap.StartedAt = &started
	}

	for _, p := range s.Roster.All() {
		view := ParticipantView{
			Participant:   *p,
			Points:        stats.Points(p.Stats),
			TotalRebounds: stats.TotalRebounds(p.Stats),
			OnCourt:       s.Lineup.IsOnCourt(p.ID),
		}
		if p.Number != nil {
			n := *p.Number
			view.Number = &n
		}
		snap.TeamScore += view.Points
		snap.Participants = append(snap.Participants, view)
	}
	return snap
}

// assistCandidates returns the scorer's teammates on the court.
func (s *State) assistCandidates(scorerID int) []int {
	var ids []int
	for _, id := range s.Lineup.OnCourt() {
		if id != scorerID {
			ids = append(ids, id)
		}
	}
	return ids
}

// records copies every participant's stat record in roster order.
func (s *State) records() []stats.Record {
	all := s.Roster.All()
	out := make([]stats.Record, 0, len(all))
	for _, p := range all {
		out = append(out, p.Stats)
	}
	return out
}

func (s *State) historyCopy() []history.Entry {
	return append([]history.Entry{}, s.History...)
}
