package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/scorekeeper/internal/apperr"
)

func num(n int) *int { return &n }

func newTestRoster(t *testing.T) *Roster {
	t.Helper()
	r, err := New([]Member{
		{Name: "Wendel", Number: num(4)},
		{Name: "Lucas"},
		{Name: "Nelis", Number: num(11)},
	})
	require.NoError(t, err)
	return r
}

func TestNew(t *testing.T) {
	r := newTestRoster(t)
	assert.Equal(t, []int{0, 1, 2}, r.IDs())
	assert.Equal(t, "Lucas", r.Get(1).Name)
	assert.False(t, r.Get(0).IsSubstitute)

	_, err := New([]Member{{Name: "Cris"}, {Name: "cris"}})
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = New([]Member{{Name: "Cris", Number: num(3)}, {Name: "Stef", Number: num(3)}})
	assert.ErrorIs(t, err, ErrDuplicateNumber)
}

func TestAddSubstitute(t *testing.T) {
	tests := []struct {
		name    string
		subName string
		number  *int
		wantErr error
	}{
		{name: "valid without number", subName: "Tycho"},
		{name: "valid with number", subName: "Justin", number: num(23)},
		{name: "blank name", subName: "   ", wantErr: ErrEmptyName},
		{name: "duplicate name ignores case", subName: "WENDEL", wantErr: ErrDuplicateName},
		{name: "duplicate number", subName: "Gerard", number: num(4), wantErr: ErrDuplicateNumber},
		{name: "number too high", subName: "Gerard", number: num(100), wantErr: ErrInvalidNumber},
		{name: "negative number", subName: "Gerard", number: num(-1), wantErr: ErrInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRoster(t)
			p, err := r.AddSubstitute(tt.subName, tt.number)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, apperr.ErrValidation)
				assert.Equal(t, 3, r.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 3, p.ID)
			assert.True(t, p.IsSubstitute)
			assert.Equal(t, tt.number, p.Number)
		})
	}
}

func TestSubstituteIDsAreNotReused(t *testing.T) {
	r := newTestRoster(t)

	a, err := r.AddSubstitute("Tycho", nil)
	require.NoError(t, err)
	require.NoError(t, r.RemoveSubstitute(a.ID))
	assert.Nil(t, r.Get(a.ID))

	b, err := r.AddSubstitute("Tycho", nil)
	require.NoError(t, err)
	assert.Greater(t, b.ID, a.ID)
	assert.Equal(t, []int{0, 1, 2, b.ID}, r.IDs())
}

func TestRemoveSubstitute(t *testing.T) {
	r := newTestRoster(t)

	err := r.RemoveSubstitute(0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = r.RemoveSubstitute(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetNumber(t *testing.T) {
	r := newTestRoster(t)

	require.NoError(t, r.SetNumber(1, num(7)))
	assert.Equal(t, 7, *r.Get(1).Number)

	// Keeping your own number is fine.
	require.NoError(t, r.SetNumber(1, num(7)))

	assert.ErrorIs(t, r.SetNumber(1, num(4)), ErrDuplicateNumber)
	assert.ErrorIs(t, r.SetNumber(9, num(5)), ErrNotFound)

	require.NoError(t, r.SetNumber(0, nil))
	assert.Nil(t, r.Get(0).Number)
}

func TestResetStats(t *testing.T) {
	r := newTestRoster(t)
	r.Get(0).Stats.Steals = 3
	r.ResetStats()
	assert.Zero(t, r.Get(0).Stats.Steals)
}
