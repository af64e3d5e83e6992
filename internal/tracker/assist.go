package tracker

import (
	"slices"

	"github.com/courtside/scorekeeper/internal/stats"
)

// PendingAssist is a made shot waiting for the operator to name the passer.
type PendingAssist struct {
	ScorerID   int                `json:"scorerId"`
	Category   stats.ShotCategory `json:"category"`
	Candidates []int              `json:"candidates"`
}

// BeginAssistedShot opens a pending assist for a made shot by scorerID. No
// stats change until ConfirmAssist.
func (e *Engine) BeginAssistedShot(scorerID int, category stats.ShotCategory, candidates []int) (*PendingAssist, error) {
	if e.pending != nil {
		return nil, ErrAssistPending
	}
	if _, err := e.participant(scorerID); err != nil {
		return nil, err
	}
	if _, err := stats.ParseShotCategory(string(category)); err != nil {
		return nil, err
	}

	e.pending = &PendingAssist{
		ScorerID:   scorerID,
		Category:   category,
		Candidates: without(candidates, scorerID),
	}
	return e.PendingAssist(), nil
}

// ConfirmAssist records the pending made shot. A nil assistID records it
// without an assist.
func (e *Engine) ConfirmAssist(assistID *int) error {
	if e.pending == nil {
		return ErrNoPendingAssist
	}
	if assistID != nil && !slices.Contains(e.pending.Candidates, *assistID) {
		return ErrInvalidAssister
	}

	p := e.pending
	if err := e.RecordShotOutcome(p.ScorerID, p.Category, true, assistID); err != nil {
		return err
	}
	e.pending = nil
	return nil
}

// CancelAssist drops the pending shot without recording anything.
func (e *Engine) CancelAssist() error {
	if e.pending == nil {
		return ErrNoPendingAssist
	}
	e.pending = nil
	return nil
}

// PendingAssist returns a copy of the open assisted shot, or nil.
func (e *Engine) PendingAssist() *PendingAssist {
	if e.pending == nil {
		return nil
	}
	p := *e.pending
	p.Candidates = slices.Clone(e.pending.Candidates)
	return &p
}
