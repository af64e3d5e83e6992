package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/scorekeeper/internal/apperr"
	"github.com/courtside/scorekeeper/internal/roster"
	"github.com/courtside/scorekeeper/internal/stats"
)

var (
	gameStart = time.Date(2025, 3, 8, 14, 0, 0, 0, time.UTC)
	gameEnd   = gameStart.Add(90 * time.Minute)
)

func testRoster(t *testing.T) *roster.Roster {
	t.Helper()
	seven := 7
	r, err := roster.New([]roster.Member{{Name: "Wendel"}, {Name: "Lucas", Number: &seven}})
	require.NoError(t, err)
	r.Get(0).Stats = stats.Record{TwoPointMade: 3, TwoPointAttempted: 5, FreeThrowMade: 1, FreeThrowAttempted: 2}
	r.Get(1).Stats = stats.Record{ThreePointMade: 2, ThreePointAttempted: 6, Assists: 4}
	return r
}

func TestSessionSave(t *testing.T) {
	r := testRoster(t)
	var s Session

	_, err := s.Save(r.All(), gameEnd)
	assert.ErrorIs(t, err, ErrNoActiveSession)
	assert.ErrorIs(t, err, apperr.ErrState)

	s.Start(gameStart)
	require.True(t, s.Active())
	assert.NotEmpty(t, s.ID())

	e, err := s.Save(r.All(), gameEnd)
	require.NoError(t, err)
	assert.Equal(t, gameEnd.UnixMilli(), e.ID)
	assert.Equal(t, gameStart, e.Date)
	assert.Equal(t, gameEnd, e.EndDate)
	assert.Equal(t, 13, e.TeamScore)
	require.Len(t, e.Players, 2)
	assert.Equal(t, 7, e.Players[0].Points)
	assert.Equal(t, 7, *e.Players[1].Number)

	// Saving again works and the snapshot is independent of later changes.
	r.Get(0).Stats.TwoPointMade = 0
	*r.Get(1).Number = 9
	assert.Equal(t, 3, e.Players[0].Stats.TwoPointMade)
	assert.Equal(t, 7, *e.Players[1].Number)

	again, err := s.Save(r.All(), gameEnd.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 7, again.TeamScore)

	s.End()
	assert.False(t, s.Active())
	_, err = s.Save(r.All(), gameEnd)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestPrepend(t *testing.T) {
	h := []Entry{{ID: 1}, {ID: 2}}
	out := Prepend(h, Entry{ID: 3})
	assert.Equal(t, []int64{3, 1, 2}, []int64{out[0].ID, out[1].ID, out[2].ID})
	assert.Len(t, h, 2)
}

func TestAggregateLucas(t *testing.T) {
	h := []Entry{
		{ID: 2, Players: []PlayerSnapshot{
			{Name: "Lucas", Stats: stats.Record{TwoPointMade: 5, TwoPointAttempted: 9}, Points: 10},
			{Name: "Wendel", Stats: stats.Record{Steals: 2}},
		}},
		{ID: 1, Players: []PlayerSnapshot{
			{Name: "Wendel", Stats: stats.Record{FreeThrowMade: 1, FreeThrowAttempted: 1}, Points: 1},
		}},
	}

	totals := Aggregate(h, []string{"Lucas", "Nelis", "Wendel"})
	require.Len(t, totals, 3)

	lucas := totals[0]
	assert.Equal(t, "Lucas", lucas.Name)
	assert.Equal(t, 1, lucas.GamesPlayed)
	assert.Equal(t, 10, lucas.TotalPoints)
	assert.InDelta(t, 10.0, lucas.AvgPoints(), 1e-9)

	nelis := totals[1]
	assert.Zero(t, nelis.GamesPlayed)
	assert.Zero(t, nelis.AvgPoints())

	wendel := totals[2]
	assert.Equal(t, 2, wendel.GamesPlayed)
	assert.Equal(t, 1, wendel.TotalPoints)
	assert.Equal(t, 2, wendel.TotalSteals)
}

func TestAggregateFiltersAndFallsBack(t *testing.T) {
	h := []Entry{{Players: []PlayerSnapshot{
		{Name: "Tycho", Stats: stats.Record{TwoPointMade: 4, TwoPointAttempted: 4}},
		{Name: "Stef", Stats: stats.Record{ThreePointMade: 1, ThreePointAttempted: 2, DefensiveRebounds: 2, OffensiveRebounds: 1}},
	}}}

	totals := Aggregate(h, []string{"Stef", "Stef"})
	require.Len(t, totals, 1, "duplicate allow-list names collapse")
	assert.Equal(t, 3, totals[0].TotalPoints, "points recomputed when not stored")
	assert.Equal(t, 3, totals[0].TotalRebounds)
}

func TestSortTotals(t *testing.T) {
	rows := func() []Totals {
		return []Totals{
			{Name: "Cris", TotalPoints: 10, GamesPlayed: 2, ThreePointMade: 1, ThreePointAttempted: 4},
			{Name: "Anna", TotalPoints: 30, GamesPlayed: 3},
			{Name: "Bram", TotalPoints: 10, GamesPlayed: 1, ThreePointMade: 0, ThreePointAttempted: 3},
		}
	}
	names := func(ts []Totals) []string {
		var out []string
		for _, t := range ts {
			out = append(out, t.Name)
		}
		return out
	}

	tests := []struct {
		name string
		sort Sort
		want []string
	}{
		{name: "default", sort: DefaultSort, want: []string{"Anna", "Cris", "Bram"}},
		{name: "points ascending is stable", sort: Sort{SortTotalPoints, Asc}, want: []string{"Cris", "Bram", "Anna"}},
		{name: "name", sort: Sort{SortName, Asc}, want: []string{"Anna", "Bram", "Cris"}},
		{name: "average", sort: Sort{SortAvgPoints, Desc}, want: []string{"Anna", "Bram", "Cris"}},
		{name: "no attempts sorts last", sort: Sort{SortThreePointPct, Desc}, want: []string{"Cris", "Bram", "Anna"}},
		{name: "no attempts sorts first ascending", sort: Sort{SortThreePointPct, Asc}, want: []string{"Anna", "Bram", "Cris"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := rows()
			SortTotals(ts, tt.sort)
			assert.Equal(t, tt.want, names(ts))
		})
	}
}

func TestToggleSort(t *testing.T) {
	s := ToggleSort(DefaultSort, SortTotalPoints)
	assert.Equal(t, Sort{SortTotalPoints, Asc}, s)
	s = ToggleSort(s, SortTotalPoints)
	assert.Equal(t, Sort{SortTotalPoints, Desc}, s)
	s = ToggleSort(Sort{SortTotalPoints, Asc}, SortName)
	assert.Equal(t, Sort{SortName, Desc}, s)
}

func TestParseSort(t *testing.T) {
	k, err := ParseSortKey("freeThrowPct")
	require.NoError(t, err)
	assert.Equal(t, SortFreeThrowPct, k)

	_, err = ParseSortKey("height")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	o, err := ParseSortOrder("ASC")
	require.NoError(t, err)
	assert.Equal(t, Asc, o)

	_, err = ParseSortOrder("sideways")
	assert.ErrorIs(t, err, ErrUnknownSortOrder)
}

func TestGameSummary(t *testing.T) {
	e := Entry{ID: 5, TeamScore: 12, Players: []PlayerSnapshot{
		{Name: "Wendel", Stats: stats.Record{TwoPointMade: 3, TwoPointAttempted: 3, Assists: 1}, Points: 6},
		{Name: "Lucas", Stats: stats.Record{ThreePointMade: 2, ThreePointAttempted: 2, Assists: 2}, Points: 6},
	}}

	s := GameSummary(e)
	assert.Equal(t, "Wendel", s.TopScorer)
	assert.Equal(t, 6, s.TopPoints)
	assert.Equal(t, 3, s.Totals.Assists)
	assert.Equal(t, 12, s.TeamScore)

	assert.Empty(t, GameSummary(Entry{}).TopScorer)
}
