// Package roster holds the participants of a game: the fixed team roster plus
// any substitutes added during setup or play.
package roster

import (
	"fmt"
	"strings"

	"github.com/courtside/scorekeeper/internal/apperr"
	"github.com/courtside/scorekeeper/internal/stats"
)

var (
	ErrEmptyName       = apperr.New(apperr.ErrValidation, "name is required")
	ErrDuplicateName   = apperr.New(apperr.ErrValidation, "a participant with this name already exists")
	ErrDuplicateNumber = apperr.New(apperr.ErrValidation, "jersey number is already taken")
	ErrInvalidNumber   = apperr.New(apperr.ErrValidation, "jersey number must be between 0 and 99")
	ErrNotFound        = apperr.New(apperr.ErrNotFound, "participant not found")
	ErrNotSubstitute   = apperr.New(apperr.ErrNotFound, "participant is not a substitute")
)

const (
	MinNumber = 0
	MaxNumber = 99
)

// Participant is a roster player or a substitute together with the stats
// recorded for them in the current game.
type Participant struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Number       *int         `json:"number"`
	IsSubstitute bool         `json:"isSubstitute"`
	Stats        stats.Record `json:"stats"`
}

// Member is one entry of the configured team list.
type Member struct {
	Name   string
	Number *int
}

// Roster owns every participant. It is not safe for concurrent use.
type Roster struct {
	byID   map[int]*Participant
	order  []int
	nextID int
}

// New builds a roster from the configured team. Members get ids 0..n-1 in
// order.
func New(members []Member) (*Roster, error) {
	r := &Roster{byID: make(map[int]*Participant, len(members))}
	for _, m := range members {
		if _, err := r.add(m.Name, m.Number, false); err != nil {
			return nil, fmt.Errorf("roster member %q: %w", m.Name, err)
		}
	}
	return r, nil
}

func (r *Roster) add(name string, number *int, substitute bool) (*Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if r.nameTaken(name) {
		return nil, ErrDuplicateName
	}
	if err := r.checkNumber(-1, number); err != nil {
		return nil, err
	}

	p := &Participant{
		ID:           r.nextID,
		Name:         name,
		Number:       copyNumber(number),
		IsSubstitute: substitute,
	}
	r.nextID++
	r.byID[p.ID] = p
	r.order = append(r.order, p.ID)
	return p, nil
}

// AddSubstitute creates a substitute with the next free id. Ids are never
// reused, even after the substitute is removed.
func (r *Roster) AddSubstitute(name string, number *int) (*Participant, error) {
	return r.add(name, number, true)
}

// RemoveSubstitute deletes a substitute. Roster players cannot be removed.
func (r *Roster) RemoveSubstitute(id int) error {
	p, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	if !p.IsSubstitute {
		return ErrNotSubstitute
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// SetNumber assigns or clears (nil) a participant's jersey number.
func (r *Roster) SetNumber(id int, number *int) error {
	p, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	if err := r.checkNumber(id, number); err != nil {
		return err
	}
	p.Number = copyNumber(number)
	return nil
}

func (r *Roster) nameTaken(name string) bool {
	for _, p := range r.byID {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

// checkNumber validates number for participant self (-1 for a new one).
func (r *Roster) checkNumber(self int, number *int) error {
	if number == nil {
		return nil
	}
	if *number < MinNumber || *number > MaxNumber {
		return ErrInvalidNumber
	}
	for _, p := range r.byID {
		if p.ID != self && p.Number != nil && *p.Number == *number {
			return ErrDuplicateNumber
		}
	}
	return nil
}

// Get returns the participant with id, or nil.
func (r *Roster) Get(id int) *Participant {
	return r.byID[id]
}

// Has reports whether id belongs to a current participant.
func (r *Roster) Has(id int) bool {
	_, ok := r.byID[id]
	return ok
}

// All returns roster players followed by substitutes, in creation order.
func (r *Roster) All() []*Participant {
	out := make([]*Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// IDs returns participant ids in the same order as All.
func (r *Roster) IDs() []int {
	ids := make([]int, len(r.order))
	copy(ids, r.order)
	return ids
}

// Len returns the number of participants.
func (r *Roster) Len() int {
	return len(r.order)
}

// ResetStats zeroes every participant's record.
func (r *Roster) ResetStats() {
	for _, p := range r.byID {
		p.Stats = stats.Record{}
	}
}

func copyNumber(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}
