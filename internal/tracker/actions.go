package tracker

import (
	"github.com/courtside/scorekeeper/internal/roster"
	"github.com/courtside/scorekeeper/internal/stats"
)

// Action is one entry of the global undo log. The set of variants is closed:
// each one knows how to revert itself.
type Action interface {
	ParticipantID() int
	Kind() string
	revert(r *roster.Roster)
}

// StatIncrement is a +1 on a single counter.
type StatIncrement struct {
	Participant int           `json:"participantId"`
	Counter     stats.Counter `json:"counter"`
}

func (a StatIncrement) ParticipantID() int { return a.Participant }
func (StatIncrement) Kind() string         { return "stat" }

func (a StatIncrement) revert(r *roster.Roster) {
	rec := &r.Get(a.Participant).Stats
	if cat, ok := stats.ShotCategoryOf(a.Counter); ok && a.Counter == cat.AttemptedCounter() {
		if rec.Get(a.Counter) <= rec.Get(cat.MadeCounter()) {
			return
		}
	}
	rec.Decrement(a.Counter)
}

// ShotMade is a made shot, optionally assisted.
type ShotMade struct {
	Participant int                `json:"participantId"`
	Category    stats.ShotCategory `json:"category"`
	AssistID    *int               `json:"assistId,omitempty"`
}

func (a ShotMade) ParticipantID() int { return a.Participant }
func (ShotMade) Kind() string         { return "shot_made" }

func (a ShotMade) revert(r *roster.Roster) {
	rec := &r.Get(a.Participant).Stats
	rec.Decrement(a.Category.MadeCounter())
	rec.Decrement(a.Category.AttemptedCounter())
	if a.AssistID != nil {
		if assister := r.Get(*a.AssistID); assister != nil {
			assister.Stats.Decrement(stats.Assists)
		}
	}
}

// ShotMissed is a missed shot.
type ShotMissed struct {
	Participant int                `json:"participantId"`
	Category    stats.ShotCategory `json:"category"`
}

func (a ShotMissed) ParticipantID() int { return a.Participant }
func (ShotMissed) Kind() string         { return "shot_missed" }

func (a ShotMissed) revert(r *roster.Roster) {
	decrementAttempt(&r.Get(a.Participant).Stats, a.Category)
}

// Rebound is a defensive or offensive rebound.
type Rebound struct {
	Participant int               `json:"participantId"`
	Type        stats.ReboundKind `json:"kind"`
}

func (a Rebound) ParticipantID() int { return a.Participant }
func (Rebound) Kind() string         { return "rebound" }

func (a Rebound) revert(r *roster.Roster) {
	r.Get(a.Participant).Stats.Decrement(a.Type.Counter())
}

// StatsEdit is a bulk replacement of a record. Before holds the record as it
// was prior to the edit.
type StatsEdit struct {
	Participant int          `json:"participantId"`
	Before      stats.Record `json:"before"`
}

func (a StatsEdit) ParticipantID() int { return a.Participant }
func (StatsEdit) Kind() string         { return "stats_edit" }

func (a StatsEdit) revert(r *roster.Roster) {
	r.Get(a.Participant).Stats = a.Before
}

// decrementAttempt removes one attempt from cat unless that would leave fewer
// attempts than makes.
func decrementAttempt(rec *stats.Record, cat stats.ShotCategory) bool {
	if rec.Get(cat.AttemptedCounter()) <= rec.Get(cat.MadeCounter()) {
		return false
	}
	return rec.Decrement(cat.AttemptedCounter())
}

// decrementMake removes one made shot together with its attempt.
func decrementMake(rec *stats.Record, cat stats.ShotCategory) bool {
	if !rec.Decrement(cat.MadeCounter()) {
		return false
	}
	rec.Decrement(cat.AttemptedCounter())
	return true
}
