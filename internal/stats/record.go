package stats

import (
	"fmt"

	"github.com/courtside/scorekeeper/internal/apperr"
)

// Counter names one of the twelve counters of a Record. The string value
// matches the JSON field name used in saved history.
type Counter string

const (
	TwoPointMade        Counter = "twoPointMade"
	TwoPointAttempted   Counter = "twoPointAttempted"
	ThreePointMade      Counter = "threePointMade"
	ThreePointAttempted Counter = "threePointAttempted"
	FreeThrowMade       Counter = "freeThrowMade"
	FreeThrowAttempted  Counter = "freeThrowAttempted"
	DefensiveRebounds   Counter = "defensiveRebounds"
	OffensiveRebounds   Counter = "offensiveRebounds"
	Assists             Counter = "assists"
	Steals              Counter = "steals"
	Blocks              Counter = "blocks"
	Turnovers           Counter = "turnovers"
)

// Counters lists every counter in display order.
var Counters = []Counter{
	TwoPointMade, TwoPointAttempted,
	ThreePointMade, ThreePointAttempted,
	FreeThrowMade, FreeThrowAttempted,
	DefensiveRebounds, OffensiveRebounds,
	Assists, Steals, Blocks, Turnovers,
}

var ErrUnknownCounter = apperr.New(apperr.ErrValidation, "unknown stat counter")

// ParseCounter validates a counter name.
func ParseCounter(s string) (Counter, error) {
	c := Counter(s)
	if !c.Valid() {
		return "", fmt.Errorf("%q: %w", s, ErrUnknownCounter)
	}
	return c, nil
}

func (c Counter) Valid() bool {
	for _, known := range Counters {
		if c == known {
			return true
		}
	}
	return false
}

// Record holds the twelve per-participant counters.
type Record struct {
	TwoPointMade        int `json:"twoPointMade"`
	TwoPointAttempted   int `json:"twoPointAttempted"`
	ThreePointMade      int `json:"threePointMade"`
	ThreePointAttempted int `json:"threePointAttempted"`
	FreeThrowMade       int `json:"freeThrowMade"`
	FreeThrowAttempted  int `json:"freeThrowAttempted"`
	DefensiveRebounds   int `json:"defensiveRebounds"`
	OffensiveRebounds   int `json:"offensiveRebounds"`
	Assists             int `json:"assists"`
	Steals              int `json:"steals"`
	Blocks              int `json:"blocks"`
	Turnovers           int `json:"turnovers"`
}

func (r *Record) field(c Counter) *int {
	switch c {
	case TwoPointMade:
		return &r.TwoPointMade
	case TwoPointAttempted:
		return &r.TwoPointAttempted
	case ThreePointMade:
		return &r.ThreePointMade
	case ThreePointAttempted:
		return &r.ThreePointAttempted
	case FreeThrowMade:
		return &r.FreeThrowMade
	case FreeThrowAttempted:
		return &r.FreeThrowAttempted
	case DefensiveRebounds:
		return &r.DefensiveRebounds
	case OffensiveRebounds:
		return &r.OffensiveRebounds
	case Assists:
		return &r.Assists
	case Steals:
		return &r.Steals
	case Blocks:
		return &r.Blocks
	case Turnovers:
		return &r.Turnovers
	}
	return nil
}

// Get returns the value of c, or 0 for an unknown counter.
func (r Record) Get(c Counter) int {
	if f := r.field(c); f != nil {
		return *f
	}
	return 0
}

// Increment adds one to c.
func (r *Record) Increment(c Counter) {
	if f := r.field(c); f != nil {
		*f++
	}
}

// Set overwrites c with v. Negative values are clamped to zero.
func (r *Record) Set(c Counter, v int) {
	if f := r.field(c); f != nil {
		*f = max(v, 0)
	}
}

// Decrement subtracts one from c and reports whether the value changed.
// Counters never go below zero.
func (r *Record) Decrement(c Counter) bool {
	f := r.field(c)
	if f == nil || *f <= 0 {
		return false
	}
	*f--
	return true
}

// Validate rejects records with negative counters.
func (r Record) Validate() error {
	for _, c := range Counters {
		if r.Get(c) < 0 {
			return apperr.New(apperr.ErrValidation, fmt.Sprintf("%s cannot be negative", c))
		}
	}
	return nil
}

// Correction describes one shot category whose attempted count had to be
// raised to match made.
type Correction struct {
	Category           ShotCategory `json:"category"`
	Made               int          `json:"made"`
	RequestedAttempted int          `json:"requestedAttempted"`
	Attempted          int          `json:"attempted"`
}

// Corrected returns r with every attempted count raised to at least its made
// count, along with the corrections applied. A nil slice means r was already
// consistent.
func (r Record) Corrected() (Record, []Correction) {
	var corrections []Correction
	for _, cat := range ShotCategories {
		made, attempted := r.Get(cat.MadeCounter()), r.Get(cat.AttemptedCounter())
		if made > attempted {
			*r.field(cat.AttemptedCounter()) = made
			corrections = append(corrections, Correction{
				Category:           cat,
				Made:               made,
				RequestedAttempted: attempted,
				Attempted:          made,
			})
		}
	}
	return r, corrections
}

// Consistent reports whether made <= attempted holds for every category.
func (r Record) Consistent() bool {
	_, corrections := r.Corrected()
	return len(corrections) == 0
}
