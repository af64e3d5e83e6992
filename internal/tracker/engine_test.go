package tracker

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/scorekeeper/internal/apperr"
	"github.com/courtside/scorekeeper/internal/roster"
	"github.com/courtside/scorekeeper/internal/stats"
)

func newEngine(t *testing.T) (*Engine, *roster.Roster) {
	t.Helper()
	r, err := roster.New([]roster.Member{
		{Name: "Wendel"}, {Name: "Lucas"}, {Name: "Nelis"}, {Name: "Cris"},
	})
	require.NoError(t, err)
	return New(r), r
}

func ptr(n int) *int { return &n }

func TestApplyStatDelta(t *testing.T) {
	tests := []struct {
		name    string
		start   stats.Record
		counter stats.Counter
		delta   int
		want    stats.Record
		logged  bool
		wantErr error
	}{
		{name: "increment steals", counter: stats.Steals, delta: 1, want: stats.Record{Steals: 1}, logged: true},
		{name: "decrement at zero is a no-op", counter: stats.Blocks, delta: -1},
		{name: "decrement is not logged", start: stats.Record{Turnovers: 2}, counter: stats.Turnovers, delta: -1, want: stats.Record{Turnovers: 1}},
		{name: "bad delta", counter: stats.Steals, delta: 2, wantErr: ErrInvalidDelta},
		{name: "unknown counter", counter: stats.Counter("dunks"), delta: 1, wantErr: stats.ErrUnknownCounter},
		{
			name:    "made cannot pass attempted",
			start:   stats.Record{TwoPointMade: 1, TwoPointAttempted: 1},
			counter: stats.TwoPointMade, delta: 1,
			want:    stats.Record{TwoPointMade: 1, TwoPointAttempted: 1},
			wantErr: ErrShotInvariant,
		},
		{
			name:    "made below attempted may grow",
			start:   stats.Record{FreeThrowMade: 1, FreeThrowAttempted: 2},
			counter: stats.FreeThrowMade, delta: 1,
			want:    stats.Record{FreeThrowMade: 2, FreeThrowAttempted: 2},
			logged:  true,
		},
		{
			name:    "attempted cannot drop below made",
			start:   stats.Record{ThreePointMade: 2, ThreePointAttempted: 2},
			counter: stats.ThreePointAttempted, delta: -1,
			want:    stats.Record{ThreePointMade: 2, ThreePointAttempted: 2},
			wantErr: ErrShotInvariant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, r := newEngine(t)
			r.Get(0).Stats = tt.start

			err := e.ApplyStatDelta(0, tt.counter, tt.delta)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, apperr.ErrValidation)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, r.Get(0).Stats)
			if tt.logged {
				assert.Equal(t, 1, e.LogSize())
			} else {
				assert.Zero(t, e.LogSize())
			}
		})
	}
}

func TestApplyStatDeltaUnknownParticipant(t *testing.T) {
	e, _ := newEngine(t)
	err := e.ApplyStatDelta(99, stats.Steals, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeltaThenUndoRestores(t *testing.T) {
	for _, c := range stats.Counters {
		t.Run(string(c), func(t *testing.T) {
			e, r := newEngine(t)
			start := stats.Record{TwoPointAttempted: 3, ThreePointAttempted: 3, FreeThrowAttempted: 3, Assists: 1}
			r.Get(1).Stats = start

			require.NoError(t, e.ApplyStatDelta(1, c, 1))
			name, err := e.UndoLastGlobalAction()
			require.NoError(t, err)
			assert.Equal(t, "Lucas", name)
			assert.Equal(t, start, r.Get(1).Stats)
		})
	}
}

func TestShotThenTargetedUndoIsNetZero(t *testing.T) {
	for _, cat := range stats.ShotCategories {
		for _, made := range []bool{true, false} {
			e, r := newEngine(t)
			start := stats.Record{TwoPointMade: 1, TwoPointAttempted: 4, ThreePointMade: 2, ThreePointAttempted: 2}
			r.Get(2).Stats = start

			require.NoError(t, e.RecordShotOutcome(2, cat, made, nil))
			// Other players keep playing before the correction.
			require.NoError(t, e.RecordShotOutcome(3, cat, !made, nil))
			require.NoError(t, e.RecordShotOutcome(1, stats.ThreePoint, true, ptr(3)))
			require.NoError(t, e.RecordRebound(3, stats.Offensive))
			require.NoError(t, e.ApplyStatDelta(0, stats.Steals, 1))
			require.NoError(t, e.UndoLastShot(3, cat))

			require.NoError(t, e.UndoLastShot(2, cat))
			assert.Equal(t, start, r.Get(2).Stats, "%s made=%v", cat, made)
		}
	}
}

func TestUndoRememberedMakeAfterEdit(t *testing.T) {
	tests := []struct {
		name string
		edit stats.Record
		want stats.Record
	}{
		{name: "makes cleared", edit: stats.Record{TwoPointAttempted: 5}, want: stats.Record{TwoPointAttempted: 4}},
		{name: "everything cleared", edit: stats.Record{}, want: stats.Record{}},
		{name: "all makes", edit: stats.Record{TwoPointMade: 3, TwoPointAttempted: 3}, want: stats.Record{TwoPointMade: 2, TwoPointAttempted: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, r := newEngine(t)
			require.NoError(t, e.RecordShotOutcome(0, stats.TwoPoint, true, nil))
			require.NoError(t, e.ApplyBulkEdit(0, tt.edit))

			require.NoError(t, e.UndoLastShot(0, stats.TwoPoint))
			assert.Equal(t, tt.want, r.Get(0).Stats)
			assert.True(t, r.Get(0).Stats.Consistent())
		})
	}
}

func TestTwoOfThreeScenario(t *testing.T) {
	e, r := newEngine(t)
	p := r.Get(0)
	p.Stats = stats.Record{TwoPointMade: 2, TwoPointAttempted: 3}
	before := stats.Points(p.Stats)

	require.NoError(t, e.RecordShotOutcome(0, stats.TwoPoint, true, nil))
	assert.Equal(t, 3, p.Stats.TwoPointMade)
	assert.Equal(t, 4, p.Stats.TwoPointAttempted)
	assert.Equal(t, before+2, stats.Points(p.Stats))

	require.NoError(t, e.UndoLastShot(0, stats.TwoPoint))
	assert.Equal(t, 2, p.Stats.TwoPointMade)
	assert.Equal(t, 3, p.Stats.TwoPointAttempted)
	assert.Equal(t, 1, e.LogSize(), "targeted undo leaves the log alone")
}

func TestUndoLastShotWithoutMemory(t *testing.T) {
	tests := []struct {
		name  string
		start stats.Record
		want  stats.Record
	}{
		{name: "removes a make when present", start: stats.Record{FreeThrowMade: 1, FreeThrowAttempted: 3}, want: stats.Record{FreeThrowAttempted: 2}},
		{name: "falls back to an attempt", start: stats.Record{FreeThrowAttempted: 3}, want: stats.Record{FreeThrowAttempted: 2}},
		{name: "nothing to remove", start: stats.Record{}, want: stats.Record{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, r := newEngine(t)
			r.Get(0).Stats = tt.start
			require.NoError(t, e.UndoLastShot(0, stats.FreeThrow))
			assert.Equal(t, tt.want, r.Get(0).Stats)
		})
	}
}

func TestShotMemoryIsConsumed(t *testing.T) {
	e, r := newEngine(t)
	require.NoError(t, e.RecordShotOutcome(0, stats.ThreePoint, false, nil))
	r.Get(0).Stats.ThreePointMade = 1
	r.Get(0).Stats.ThreePointAttempted = 3

	require.NoError(t, e.UndoLastShot(0, stats.ThreePoint))
	assert.Equal(t, 2, r.Get(0).Stats.ThreePointAttempted)
	assert.Equal(t, 1, r.Get(0).Stats.ThreePointMade)

	// Memory is gone, so the heuristic now removes the make.
	require.NoError(t, e.UndoLastShot(0, stats.ThreePoint))
	assert.Equal(t, stats.Record{ThreePointAttempted: 1}, r.Get(0).Stats)
}

func TestAssistedShot(t *testing.T) {
	e, r := newEngine(t)

	require.NoError(t, e.RecordShotOutcome(0, stats.TwoPoint, true, ptr(1)))
	assert.Equal(t, 1, r.Get(1).Stats.Assists)
	assert.Equal(t, 2, stats.Points(r.Get(0).Stats))

	// Targeted undo reverses only the scorer.
	require.NoError(t, e.UndoLastShot(0, stats.TwoPoint))
	assert.Equal(t, 1, r.Get(1).Stats.Assists)

	require.NoError(t, e.RecordShotOutcome(0, stats.ThreePoint, true, ptr(2)))
	_, err := e.UndoLastGlobalAction()
	require.NoError(t, err)
	assert.Zero(t, r.Get(2).Stats.Assists, "global undo reverses the assist too")
	assert.Zero(t, r.Get(0).Stats.ThreePointMade)
}

func TestAssistValidation(t *testing.T) {
	e, r := newEngine(t)

	assert.ErrorIs(t, e.RecordShotOutcome(0, stats.TwoPoint, false, ptr(1)), ErrAssistOnMiss)
	assert.ErrorIs(t, e.RecordShotOutcome(0, stats.TwoPoint, true, ptr(0)), ErrSelfAssist)
	assert.ErrorIs(t, e.RecordShotOutcome(0, stats.TwoPoint, true, ptr(77)), apperr.ErrNotFound)
	assert.ErrorIs(t, e.RecordShotOutcome(0, stats.ShotCategory("dunk"), true, nil), apperr.ErrValidation)

	assert.Equal(t, stats.Record{}, r.Get(0).Stats, "rejected shots change nothing")
	assert.Zero(t, e.LogSize())
}

func TestPendingAssist(t *testing.T) {
	e, r := newEngine(t)

	pending, err := e.BeginAssistedShot(0, stats.TwoPoint, []int{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, pending.Candidates)
	assert.Equal(t, stats.Record{}, r.Get(0).Stats)

	_, err = e.BeginAssistedShot(1, stats.TwoPoint, nil)
	assert.ErrorIs(t, err, ErrAssistPending)

	assert.ErrorIs(t, e.ConfirmAssist(ptr(3)), ErrInvalidAssister)
	require.NotNil(t, e.PendingAssist())

	require.NoError(t, e.ConfirmAssist(ptr(2)))
	assert.Nil(t, e.PendingAssist())
	assert.Equal(t, 1, r.Get(0).Stats.TwoPointMade)
	assert.Equal(t, 1, r.Get(2).Stats.Assists)

	_, err = e.BeginAssistedShot(1, stats.FreeThrow, []int{0})
	require.NoError(t, err)
	require.NoError(t, e.ConfirmAssist(nil))
	assert.Equal(t, 1, r.Get(1).Stats.FreeThrowMade)

	_, err = e.BeginAssistedShot(1, stats.ThreePoint, []int{0})
	require.NoError(t, err)
	require.NoError(t, e.CancelAssist())
	assert.Zero(t, r.Get(1).Stats.ThreePointAttempted)
	assert.ErrorIs(t, e.CancelAssist(), ErrNoPendingAssist)
	assert.ErrorIs(t, e.ConfirmAssist(nil), ErrNoPendingAssist)
}

func TestRebounds(t *testing.T) {
	e, r := newEngine(t)

	require.NoError(t, e.RecordRebound(3, stats.Offensive))
	require.NoError(t, e.RecordRebound(3, stats.Defensive))
	assert.Equal(t, 2, stats.TotalRebounds(r.Get(3).Stats))
	assert.Equal(t, 2, e.LogSize())

	require.NoError(t, e.DecrementRebound(3))
	assert.Zero(t, r.Get(3).Stats.DefensiveRebounds, "defensive goes first")
	assert.Equal(t, 1, r.Get(3).Stats.OffensiveRebounds)

	require.NoError(t, e.DecrementRebound(3))
	require.NoError(t, e.DecrementRebound(3))
	assert.Equal(t, stats.Record{}, r.Get(3).Stats)
	assert.Equal(t, 2, e.LogSize(), "decrements are not logged")

	assert.ErrorIs(t, e.RecordRebound(3, stats.ReboundKind("sideways")), apperr.ErrValidation)
}

func TestBulkEditRequiresCorrection(t *testing.T) {
	e, r := newEngine(t)
	r.Get(1).Stats = stats.Record{TwoPointMade: 1, TwoPointAttempted: 2}

	err := e.ApplyBulkEdit(1, stats.Record{TwoPointMade: 5, TwoPointAttempted: 3})
	var corr *CorrectionRequiredError
	require.ErrorAs(t, err, &corr)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, 5, corr.Corrected.TwoPointAttempted)
	require.Len(t, corr.Corrections, 1)
	assert.Equal(t, stats.TwoPoint, corr.Corrections[0].Category)

	assert.Equal(t, stats.Record{TwoPointMade: 1, TwoPointAttempted: 2}, r.Get(1).Stats, "nothing committed")
	assert.Zero(t, e.LogSize())

	require.NoError(t, e.ApplyBulkEdit(1, corr.Corrected))
	assert.Equal(t, corr.Corrected, r.Get(1).Stats)

	_, err = e.UndoLastGlobalAction()
	require.NoError(t, err)
	assert.Equal(t, stats.Record{TwoPointMade: 1, TwoPointAttempted: 2}, r.Get(1).Stats)
}

func TestBulkEditRejectsNegative(t *testing.T) {
	e, _ := newEngine(t)
	err := e.ApplyBulkEdit(0, stats.Record{Steals: -2})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	var corr *CorrectionRequiredError
	assert.NotErrorAs(t, err, &corr)
}

func TestLogEviction(t *testing.T) {
	e, r := newEngine(t)
	for i := 0; i < LogCapacity+1; i++ {
		require.NoError(t, e.ApplyStatDelta(0, stats.Steals, 1))
	}
	assert.Equal(t, LogCapacity, e.LogSize())

	for i := 0; i < LogCapacity; i++ {
		_, err := e.UndoLastGlobalAction()
		require.NoError(t, err, "undo %d", i+1)
	}
	_, err := e.UndoLastGlobalAction()
	assert.ErrorIs(t, err, ErrEmptyLog)
	assert.ErrorIs(t, err, apperr.ErrState)
	assert.Equal(t, 1, r.Get(0).Stats.Steals, "the evicted increment survives")
}

func TestResetAllStats(t *testing.T) {
	e, r := newEngine(t)
	require.NoError(t, e.RecordShotOutcome(0, stats.TwoPoint, true, nil))
	require.NoError(t, e.RecordShotOutcome(1, stats.TwoPoint, false, nil))

	e.ResetAllStats()
	for _, p := range r.All() {
		assert.Equal(t, stats.Record{}, p.Stats)
	}
	assert.Equal(t, 2, e.LogSize(), "reset keeps the log")

	// Undo after a reset floors at zero.
	_, err := e.UndoLastGlobalAction()
	require.NoError(t, err)
	_, err = e.UndoLastGlobalAction()
	require.NoError(t, err)
	assert.Equal(t, stats.Record{}, r.Get(0).Stats)
}

func TestUndoForRemovedParticipant(t *testing.T) {
	e, r := newEngine(t)
	sub, err := r.AddSubstitute("Tycho", nil)
	require.NoError(t, err)

	require.NoError(t, e.ApplyStatDelta(sub.ID, stats.Blocks, 1))
	require.NoError(t, r.RemoveSubstitute(sub.ID))
	e.Forget(sub.ID)

	_, err = e.UndoLastGlobalAction()
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Zero(t, e.LogSize(), "the entry is consumed")
}

func TestForgetCancelsPendingAssist(t *testing.T) {
	e, _ := newEngine(t)
	_, err := e.BeginAssistedShot(0, stats.TwoPoint, []int{1, 2})
	require.NoError(t, err)

	e.Forget(1)
	assert.Equal(t, []int{2}, e.PendingAssist().Candidates)

	e.Forget(0)
	assert.Nil(t, e.PendingAssist())
}

func TestMadeNeverExceedsAttempted(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e, r := newEngine(t)
	ids := r.IDs()

	for i := 0; i < 10000; i++ {
		id := ids[rng.Intn(len(ids))]
		cat := stats.ShotCategories[rng.Intn(len(stats.ShotCategories))]
		switch rng.Intn(7) {
		case 0:
			_ = e.RecordShotOutcome(id, cat, rng.Intn(2) == 0, nil)
		case 1:
			_ = e.UndoLastShot(id, cat)
		case 2:
			c := stats.Counters[rng.Intn(len(stats.Counters))]
			_ = e.ApplyStatDelta(id, c, []int{1, -1}[rng.Intn(2)])
		case 3:
			_, _ = e.UndoLastGlobalAction()
		case 4:
			rec := stats.Record{TwoPointMade: rng.Intn(5), TwoPointAttempted: rng.Intn(5)}
			if err := e.ApplyBulkEdit(id, rec); err != nil {
				var corr *CorrectionRequiredError
				require.ErrorAs(t, err, &corr)
				require.NoError(t, e.ApplyBulkEdit(id, corr.Corrected))
			}
		case 5:
			_ = e.RecordShotOutcome(id, cat, true, ptr(ids[(id+1)%len(ids)]))
		case 6:
			if rng.Intn(50) == 0 {
				e.ResetAllStats()
			}
		}

		for _, p := range r.All() {
			require.True(t, p.Stats.Consistent(), "step %d: %+v", i, p.Stats)
			require.NoError(t, p.Stats.Validate())
		}
		require.LessOrEqual(t, e.LogSize(), LogCapacity)
	}
}
