// Package lineup tracks which participants are on the court and runs the
// two-step substitution protocol.
package lineup

import (
	"github.com/courtside/scorekeeper/internal/apperr"
)

// MaxOnCourt is the number of players a team fields at once.
const MaxOnCourt = 5

var (
	ErrSwapPending      = apperr.New(apperr.ErrState, "a substitution is already pending")
	ErrNoPendingSwap    = apperr.New(apperr.ErrState, "no substitution is pending")
	ErrInvalidCandidate = apperr.New(apperr.ErrValidation, "participant is not a swap candidate")
	ErrUnknown          = apperr.New(apperr.ErrNotFound, "participant not found")
)

// Participants is the view of the roster the tracker needs.
type Participants interface {
	IDs() []int
	Has(id int) bool
}

// PendingSwap is an open substitution waiting for the operator to pick the
// other half of the exchange.
type PendingSwap struct {
	InitiatorID      int   `json:"initiatorId"`
	InitiatorOnCourt bool  `json:"initiatorOnCourt"`
	Candidates       []int `json:"candidates"`
}

// Tracker partitions participants into on-court and bench.
type Tracker struct {
	participants Participants
	onCourt      map[int]bool
	pending      *PendingSwap
}

func New(p Participants) *Tracker {
	return &Tracker{
		participants: p,
		onCourt:      make(map[int]bool),
	}
}

// RequestMove toggles id between bench and court. A bench player joins
// directly while there is room. Otherwise a swap is opened and returned;
// the caller must finish it with ConfirmSwap or CancelSwap.
func (t *Tracker) RequestMove(id int) (*PendingSwap, error) {
	if t.pending != nil {
		return nil, ErrSwapPending
	}
	if !t.participants.Has(id) {
		return nil, ErrUnknown
	}

	if !t.onCourt[id] && len(t.onCourt) < MaxOnCourt {
		t.onCourt[id] = true
		return nil, nil
	}

	initiatorOnCourt := t.onCourt[id]
	var candidates []int
	if initiatorOnCourt {
		candidates = t.Bench()
	} else {
		candidates = t.OnCourt()
	}

	t.pending = &PendingSwap{
		InitiatorID:      id,
		InitiatorOnCourt: initiatorOnCourt,
		Candidates:       candidates,
	}
	return t.Pending(), nil
}

// ConfirmSwap exchanges the initiator with candidateID and clears the
// pending swap.
func (t *Tracker) ConfirmSwap(candidateID int) error {
	if t.pending == nil {
		return ErrNoPendingSwap
	}
	if !t.isCandidate(candidateID) {
		return ErrInvalidCandidate
	}

	p := t.pending
	if p.InitiatorOnCourt {
		delete(t.onCourt, p.InitiatorID)
		t.onCourt[candidateID] = true
	} else {
		delete(t.onCourt, candidateID)
		t.onCourt[p.InitiatorID] = true
	}
	t.pending = nil
	return nil
}

func (t *Tracker) isCandidate(id int) bool {
	p := t.pending
	found := false
	for _, c := range p.Candidates {
		if c == id {
			found = true
			break
		}
	}
	// The candidate must still be on the opposite side of the initiator.
	return found && t.participants.Has(id) && t.onCourt[id] != p.InitiatorOnCourt
}

// CancelSwap drops the pending swap without changing the lineup.
func (t *Tracker) CancelSwap() error {
	if t.pending == nil {
		return ErrNoPendingSwap
	}
	t.pending = nil
	return nil
}

// Pending returns a copy of the open swap, or nil.
func (t *Tracker) Pending() *PendingSwap {
	if t.pending == nil {
		return nil
	}
	p := *t.pending
	p.Candidates = append([]int(nil), t.pending.Candidates...)
	return &p
}

// Remove forgets id, e.g. after a substitute is deleted. A pending swap that
// involves id is cancelled; otherwise id is dropped from its candidate list.
func (t *Tracker) Remove(id int) {
	delete(t.onCourt, id)
	if t.pending == nil {
		return
	}
	if t.pending.InitiatorID == id {
		t.pending = nil
		return
	}
	c := t.pending.Candidates[:0]
	for _, cid := range t.pending.Candidates {
		if cid != id {
			c = append(c, cid)
		}
	}
	t.pending.Candidates = c
	if len(c) == 0 {
		t.pending = nil
	}
}

// IsOnCourt reports whether id is currently playing.
func (t *Tracker) IsOnCourt(id int) bool {
	return t.onCourt[id]
}

// OnCourt returns on-court ids in participant order.
func (t *Tracker) OnCourt() []int {
	return t.filter(true)
}

// Bench returns benched ids in participant order.
func (t *Tracker) Bench() []int {
	return t.filter(false)
}

func (t *Tracker) filter(onCourt bool) []int {
	ids := []int{}
	for _, id := range t.participants.IDs() {
		if t.onCourt[id] == onCourt {
			ids = append(ids, id)
		}
	}
	return ids
}
