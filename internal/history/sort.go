package history

import (
	"fmt"
	"sort"
	"strings"

	"github.com/courtside/scorekeeper/internal/apperr"
	"github.com/courtside/scorekeeper/internal/stats"
)

type SortKey string

const (
	SortName           SortKey = "name"
	SortGamesPlayed    SortKey = "gamesPlayed"
	SortTotalPoints    SortKey = "totalPoints"
	SortAvgPoints      SortKey = "avgPoints"
	SortTotalAssists   SortKey = "totalAssists"
	SortTotalRebounds  SortKey = "totalRebounds"
	SortTotalSteals    SortKey = "totalSteals"
	SortTotalBlocks    SortKey = "totalBlocks"
	SortTotalTurnovers SortKey = "totalTurnovers"
	SortTwoPointPct    SortKey = "twoPointPct"
	SortThreePointPct  SortKey = "threePointPct"
	SortFreeThrowPct   SortKey = "freeThrowPct"
)

var SortKeys = []SortKey{
	SortName, SortGamesPlayed, SortTotalPoints, SortAvgPoints,
	SortTotalAssists, SortTotalRebounds, SortTotalSteals, SortTotalBlocks,
	SortTotalTurnovers, SortTwoPointPct, SortThreePointPct, SortFreeThrowPct,
}

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Sort is a key plus direction.
type Sort struct {
	Key   SortKey   `json:"key"`
	Order SortOrder `json:"order"`
}

// DefaultSort ranks by total points, highest first.
var DefaultSort = Sort{Key: SortTotalPoints, Order: Desc}

var (
	ErrUnknownSortKey   = apperr.New(apperr.ErrValidation, "unknown sort key")
	ErrUnknownSortOrder = apperr.New(apperr.ErrValidation, "sort order must be asc or desc")
)

func ParseSortKey(s string) (SortKey, error) {
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownSortKey)
}

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(s)); o {
	case Asc, Desc:
		return o, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownSortOrder)
}

// ToggleSort returns the sort after the operator picks key: the same key
// flips direction, a new key starts descending.
func ToggleSort(current Sort, key SortKey) Sort {
	if current.Key == key {
		if current.Order == Asc {
			return Sort{Key: key, Order: Desc}
		}
		return Sort{Key: key, Order: Asc}
	}
	return Sort{Key: key, Order: Desc}
}

// noAttempts sorts below every real percentage.
const noAttempts = -1.0

func pctValue(t Totals, cat stats.ShotCategory) float64 {
	if pct, ok := t.Pct(cat); ok {
		return pct
	}
	return noAttempts
}

func numericValue(t Totals, key SortKey) float64 {
	switch key {
	case SortGamesPlayed:
		return float64(t.GamesPlayed)
	case SortTotalPoints:
		return float64(t.TotalPoints)
	case SortAvgPoints:
		return t.AvgPoints()
	case SortTotalAssists:
		return float64(t.TotalAssists)
	case SortTotalRebounds:
		return float64(t.TotalRebounds)
	case SortTotalSteals:
		return float64(t.TotalSteals)
	case SortTotalBlocks:
		return float64(t.TotalBlocks)
	case SortTotalTurnovers:
		return float64(t.TotalTurnovers)
	case SortTwoPointPct:
		return pctValue(t, stats.TwoPoint)
	case SortThreePointPct:
		return pctValue(t, stats.ThreePoint)
	case SortFreeThrowPct:
		return pctValue(t, stats.FreeThrow)
	}
	return 0
}

// SortTotals sorts totals in place. Equal rows keep their order.
func SortTotals(totals []Totals, s Sort) {
	less := func(i, j int) bool {
		if s.Key == SortName {
			return totals[i].Name < totals[j].Name
		}
		return numericValue(totals[i], s.Key) < numericValue(totals[j], s.Key)
	}
	if s.Order == Desc {
		sort.SliceStable(totals, func(i, j int) bool { return less(j, i) })
		return
	}
	sort.SliceStable(totals, less)
}
