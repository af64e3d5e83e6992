package history

import (
	"github.com/courtside/scorekeeper/internal/stats"
)

// Totals is one player's season rollup.
type Totals struct {
	Name                string `json:"name"`
	GamesPlayed         int    `json:"gamesPlayed"`
	TotalPoints         int    `json:"totalPoints"`
	TotalAssists        int    `json:"totalAssists"`
	TotalRebounds       int    `json:"totalRebounds"`
	TotalSteals         int    `json:"totalSteals"`
	TotalBlocks         int    `json:"totalBlocks"`
	TotalTurnovers      int    `json:"totalTurnovers"`
	TwoPointMade        int    `json:"twoPointMade"`
	TwoPointAttempted   int    `json:"twoPointAttempted"`
	ThreePointMade      int    `json:"threePointMade"`
	ThreePointAttempted int    `json:"threePointAttempted"`
	FreeThrowMade       int    `json:"freeThrowMade"`
	FreeThrowAttempted  int    `json:"freeThrowAttempted"`
}

// AvgPoints is points per game, 0 for a player with no games.
func (t Totals) AvgPoints() float64 {
	if t.GamesPlayed == 0 {
		return 0
	}
	return float64(t.TotalPoints) / float64(t.GamesPlayed)
}

// Pct returns the shooting percentage for cat; ok is false without attempts.
func (t Totals) Pct(cat stats.ShotCategory) (float64, bool) {
	switch cat {
	case stats.TwoPoint:
		return stats.Percentage(t.TwoPointMade, t.TwoPointAttempted)
	case stats.ThreePoint:
		return stats.Percentage(t.ThreePointMade, t.ThreePointAttempted)
	case stats.FreeThrow:
		return stats.Percentage(t.FreeThrowMade, t.FreeThrowAttempted)
	}
	return 0, false
}

// Aggregate folds every snapshot whose name is in allowed into per-name
// totals. Every allowed name gets a row, in allow-list order, even with zero
// games. Names outside the list are ignored and matching is exact.
func Aggregate(h []Entry, allowed []string) []Totals {
	idx := make(map[string]int, len(allowed))
	out := make([]Totals, 0, len(allowed))
	for _, name := range allowed {
		if _, dup := idx[name]; dup {
			continue
		}
		idx[name] = len(out)
		out = append(out, Totals{Name: name})
	}

	for _, e := range h {
		for _, p := range e.Players {
			i, ok := idx[p.Name]
			if !ok {
				continue
			}
			t := &out[i]
			s := p.Stats
			t.GamesPlayed++
			t.TotalPoints += p.ScoredPoints()
			t.TotalAssists += s.Assists
			t.TotalRebounds += stats.TotalRebounds(s)
			t.TotalSteals += s.Steals
			t.TotalBlocks += s.Blocks
			t.TotalTurnovers += s.Turnovers
			t.TwoPointMade += s.TwoPointMade
			t.TwoPointAttempted += s.TwoPointAttempted
			t.ThreePointMade += s.ThreePointMade
			t.ThreePointAttempted += s.ThreePointAttempted
			t.FreeThrowMade += s.FreeThrowMade
			t.FreeThrowAttempted += s.FreeThrowAttempted
		}
	}
	return out
}
