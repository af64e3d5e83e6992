// Package tracker records in-game events against participant stat records
// and keeps the bounded action log used for global undo.
package tracker

import (
	"fmt"

	"github.com/courtside/scorekeeper/internal/apperr"
	"github.com/courtside/scorekeeper/internal/roster"
	"github.com/courtside/scorekeeper/internal/stats"
)

// LogCapacity is the number of actions kept for global undo. Older actions
// are evicted first.
const LogCapacity = 20

var (
	ErrEmptyLog        = apperr.New(apperr.ErrState, "nothing to undo")
	ErrInvalidDelta    = apperr.New(apperr.ErrValidation, "delta must be +1 or -1")
	ErrShotInvariant   = apperr.New(apperr.ErrValidation, "made shots cannot exceed attempts")
	ErrAssistOnMiss    = apperr.New(apperr.ErrValidation, "a missed shot cannot be assisted")
	ErrSelfAssist      = apperr.New(apperr.ErrValidation, "a player cannot assist their own shot")
	ErrAssistPending   = apperr.New(apperr.ErrState, "an assisted shot is already pending")
	ErrNoPendingAssist = apperr.New(apperr.ErrState, "no assisted shot is pending")
	ErrInvalidAssister = apperr.New(apperr.ErrValidation, "participant is not an assist candidate")
)

// CorrectionRequiredError is returned by ApplyBulkEdit when the submitted
// record has more makes than attempts. Nothing is committed; Corrected holds
// the record the operator should review and resubmit.
type CorrectionRequiredError struct {
	Corrected   stats.Record
	Corrections []stats.Correction
}

func (e *CorrectionRequiredError) Error() string {
	return fmt.Sprintf("made exceeds attempted in %d shot categories, attempted was corrected", len(e.Corrections))
}

func (e *CorrectionRequiredError) Unwrap() error { return apperr.ErrValidation }

type shotKey struct {
	participant int
	category    stats.ShotCategory
}

// Engine applies operator actions to the roster's stat records.
// It is not safe for concurrent use.
type Engine struct {
	roster  *roster.Roster
	log     []Action
	shots   map[shotKey]bool
	pending *PendingAssist
	logged  uint64
}

func New(r *roster.Roster) *Engine {
	return &Engine{
		roster: r,
		log:    make([]Action, 0, LogCapacity),
		shots:  make(map[shotKey]bool),
	}
}

func (e *Engine) participant(id int) (*roster.Participant, error) {
	p := e.roster.Get(id)
	if p == nil {
		return nil, fmt.Errorf("participant %d: %w", id, roster.ErrNotFound)
	}
	return p, nil
}

func (e *Engine) push(a Action) {
	if len(e.log) == LogCapacity {
		copy(e.log, e.log[1:])
		e.log = e.log[:LogCapacity-1]
	}
	e.log = append(e.log, a)
	e.logged++
}

// ApplyStatDelta moves one counter by +1 or -1. Increments are logged for
// global undo; decrements are silent corrections and are only applied when
// the counter is above zero. Shot counters refuse changes that would leave
// more makes than attempts.
func (e *Engine) ApplyStatDelta(id int, c stats.Counter, delta int) error {
	if !c.Valid() {
		return fmt.Errorf("%q: %w", c, stats.ErrUnknownCounter)
	}
	if delta != 1 && delta != -1 {
		return ErrInvalidDelta
	}
	p, err := e.participant(id)
	if err != nil {
		return err
	}

	rec := &p.Stats
	cat, isShot := stats.ShotCategoryOf(c)
	made, attempted := 0, 0
	if isShot {
		made, attempted = rec.Get(cat.MadeCounter()), rec.Get(cat.AttemptedCounter())
	}

	if delta > 0 {
		if isShot && c == cat.MadeCounter() && made >= attempted {
			return ErrShotInvariant
		}
		rec.Increment(c)
		e.push(StatIncrement{Participant: id, Counter: c})
		return nil
	}

	if rec.Get(c) == 0 {
		return nil
	}
	if isShot && c == cat.AttemptedCounter() && attempted <= made {
		return ErrShotInvariant
	}
	rec.Decrement(c)
	return nil
}

// RecordShotOutcome records one attempt in category. A made shot also counts
// the make and, when assistID is set, an assist for the passer.
func (e *Engine) RecordShotOutcome(id int, category stats.ShotCategory, made bool, assistID *int) error {
	p, err := e.participant(id)
	if err != nil {
		return err
	}
	if _, err := stats.ParseShotCategory(string(category)); err != nil {
		return err
	}

	var assister *roster.Participant
	if assistID != nil {
		if !made {
			return ErrAssistOnMiss
		}
		if *assistID == id {
			return ErrSelfAssist
		}
		if assister, err = e.participant(*assistID); err != nil {
			return err
		}
	}

	p.Stats.Increment(category.AttemptedCounter())
	e.shots[shotKey{id, category}] = made
	if !made {
		e.push(ShotMissed{Participant: id, Category: category})
		return nil
	}

	p.Stats.Increment(category.MadeCounter())
	var assistedBy *int
	if assister != nil {
		assister.Stats.Increment(stats.Assists)
		a := assister.ID
		assistedBy = &a
	}
	e.push(ShotMade{Participant: id, Category: category, AssistID: assistedBy})
	return nil
}

// UndoLastShot takes back the most recent shot of category for id, using shot
// memory to tell a make from a miss. A remembered make takes one off both
// counters, each floored at zero. Without memory a make is removed when there
// is one, otherwise an attempt. The action log is not touched, and an
// assist credited for the shot stays in place.
func (e *Engine) UndoLastShot(id int, category stats.ShotCategory) error {
	p, err := e.participant(id)
	if err != nil {
		return err
	}
	if _, err := stats.ParseShotCategory(string(category)); err != nil {
		return err
	}

	key := shotKey{id, category}
	wasMade, remembered := e.shots[key]
	delete(e.shots, key)

	rec := &p.Stats
	switch {
	case remembered && wasMade:
		rec.Decrement(category.MadeCounter())
		decrementAttempt(rec, category)
	case remembered:
		decrementAttempt(rec, category)
	default:
		if !decrementMake(rec, category) {
			decrementAttempt(rec, category)
		}
	}
	return nil
}

// RecordRebound adds a logged rebound of the given kind.
func (e *Engine) RecordRebound(id int, kind stats.ReboundKind) error {
	p, err := e.participant(id)
	if err != nil {
		return err
	}
	if _, err := stats.ParseReboundKind(string(kind)); err != nil {
		return err
	}
	p.Stats.Increment(kind.Counter())
	e.push(Rebound{Participant: id, Type: kind})
	return nil
}

// DecrementRebound removes a defensive rebound, or an offensive one when no
// defensive rebounds remain. It is not logged.
func (e *Engine) DecrementRebound(id int) error {
	p, err := e.participant(id)
	if err != nil {
		return err
	}
	if !p.Stats.Decrement(stats.DefensiveRebounds) {
		p.Stats.Decrement(stats.OffensiveRebounds)
	}
	return nil
}

// ApplyBulkEdit replaces id's record with next. A record with more makes
// than attempts is refused with a *CorrectionRequiredError carrying the
// corrected record; nothing changes until the operator resubmits.
func (e *Engine) ApplyBulkEdit(id int, next stats.Record) error {
	p, err := e.participant(id)
	if err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	if corrected, corrections := next.Corrected(); len(corrections) > 0 {
		return &CorrectionRequiredError{Corrected: corrected, Corrections: corrections}
	}

	e.push(StatsEdit{Participant: id, Before: p.Stats})
	p.Stats = next
	return nil
}

// Peek returns the action the next global undo would revert, or nil.
func (e *Engine) Peek() Action {
	if len(e.log) == 0 {
		return nil
	}
	return e.log[len(e.log)-1]
}

// UndoLastGlobalAction pops and reverts the newest logged action and returns
// the name of the participant it belonged to. When that participant has
// since been removed the entry is still consumed and a not-found error is
// returned.
func (e *Engine) UndoLastGlobalAction() (string, error) {
	if len(e.log) == 0 {
		return "", ErrEmptyLog
	}
	a := e.log[len(e.log)-1]
	e.log = e.log[:len(e.log)-1]

	p, err := e.participant(a.ParticipantID())
	if err != nil {
		return "", err
	}
	a.revert(e.roster)
	return p.Name, nil
}

// ResetAllStats zeroes every record and forgets shot memory. The action log
// is kept, so undo after a reset operates on zeroed records.
func (e *Engine) ResetAllStats() {
	e.roster.ResetStats()
	e.ClearShotMemory()
}

// ClearShotMemory forgets every remembered shot outcome.
func (e *Engine) ClearShotMemory() {
	clear(e.shots)
}

// Forget drops shot memory and any pending assist tied to a removed
// participant. Logged actions stay and fail on undo.
func (e *Engine) Forget(id int) {
	for k := range e.shots {
		if k.participant == id {
			delete(e.shots, k)
		}
	}
	if e.pending == nil {
		return
	}
	if e.pending.ScorerID == id {
		e.pending = nil
		return
	}
	e.pending.Candidates = without(e.pending.Candidates, id)
}

// Logged returns how many actions have ever been logged, including evicted
// and undone ones.
func (e *Engine) Logged() uint64 {
	return e.logged
}

// LogSize returns the number of undoable actions.
func (e *Engine) LogSize() int {
	return len(e.log)
}

// Log returns a copy of the action log, oldest first.
func (e *Engine) Log() []Action {
	return append([]Action(nil), e.log...)
}

func without(ids []int, id int) []int {
	out := make([]int, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
