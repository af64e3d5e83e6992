package history

import (
	"github.com/courtside/scorekeeper/internal/stats"
)

// Summary is the team line of a saved game as shown in the history list.
type Summary struct {
	ID        int64        `json:"id"`
	TeamScore int          `json:"teamScore"`
	Totals    stats.Record `json:"totals"`
	TopScorer string       `json:"topScorer,omitempty"`
	TopPoints int          `json:"topPoints"`
}

// GameSummary adds up an entry's player lines and picks the top scorer. On a
// tie the player listed first wins; nobody is top scorer in a scoreless game.
func GameSummary(e Entry) Summary {
	s := Summary{ID: e.ID, TeamScore: e.TeamScore}
	for _, p := range e.Players {
		s.Totals = s.Totals.Add(p.Stats)
		if pts := p.ScoredPoints(); pts > s.TopPoints {
			s.TopPoints = pts
			s.TopScorer = p.Name
		}
	}
	return s
}
