package stats

import (
	"fmt"

	"github.com/courtside/scorekeeper/internal/apperr"
)

// ShotCategory is one of the three scoring shot types.
type ShotCategory string

const (
	TwoPoint   ShotCategory = "twoPoint"
	ThreePoint ShotCategory = "threePoint"
	FreeThrow  ShotCategory = "freeThrow"
)

var ShotCategories = []ShotCategory{TwoPoint, ThreePoint, FreeThrow}

var ErrUnknownShotCategory = apperr.New(apperr.ErrValidation, "unknown shot category")

func ParseShotCategory(s string) (ShotCategory, error) {
	switch cat := ShotCategory(s); cat {
	case TwoPoint, ThreePoint, FreeThrow:
		return cat, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownShotCategory)
}

func (s ShotCategory) MadeCounter() Counter {
	switch s {
	case TwoPoint:
		return TwoPointMade
	case ThreePoint:
		return ThreePointMade
	case FreeThrow:
		return FreeThrowMade
	}
	return ""
}

func (s ShotCategory) AttemptedCounter() Counter {
	switch s {
	case TwoPoint:
		return TwoPointAttempted
	case ThreePoint:
		return ThreePointAttempted
	case FreeThrow:
		return FreeThrowAttempted
	}
	return ""
}

// PointValue is the number of points a made shot is worth.
func (s ShotCategory) PointValue() int {
	switch s {
	case TwoPoint:
		return 2
	case ThreePoint:
		return 3
	case FreeThrow:
		return 1
	}
	return 0
}

// ShotCategoryOf returns the category a made or attempted counter belongs to.
func ShotCategoryOf(c Counter) (ShotCategory, bool) {
	for _, cat := range ShotCategories {
		if c == cat.MadeCounter() || c == cat.AttemptedCounter() {
			return cat, true
		}
	}
	return "", false
}

// ReboundKind distinguishes defensive from offensive rebounds.
type ReboundKind string

const (
	Defensive ReboundKind = "defensive"
	Offensive ReboundKind = "offensive"
)

var ErrUnknownReboundKind = apperr.New(apperr.ErrValidation, "rebound kind must be defensive or offensive")

func ParseReboundKind(s string) (ReboundKind, error) {
	switch k := ReboundKind(s); k {
	case Defensive, Offensive:
		return k, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownReboundKind)
}

func (k ReboundKind) Counter() Counter {
	if k == Offensive {
		return OffensiveRebounds
	}
	return DefensiveRebounds
}
