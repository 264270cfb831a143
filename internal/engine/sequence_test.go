package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/serress/internal/label"
)

func TestNewSequence_InvalidDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 2},
		{"zero height", 3, 0},
		{"negative width", -1, 2},
		{"negative height", 3, -4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSequence(tt.width, tt.height)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.True(t, IsInvalidDimensions(err))
			assert.False(t, IsConflict(err))

			var de *InvalidDimensionsError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.width, de.Width)
			assert.Equal(t, tt.height, de.Height)
		})
	}
}

func TestNewSequence_PageCount(t *testing.T) {
	tests := []struct {
		width, height int
		pages         int
	}{
		{3, 2, 2},
		{5, 2, 2},
		{4, 5, 3},
		{10, 3, 3},
		{2, 7, 1},
		{1, 4, 1},
	}
	for _, tt := range tests {
		s := newTestSequence(t, tt.width, tt.height)
		pages := s.Pages()
		require.Len(t, pages, tt.pages, "%dx%d", tt.width, tt.height)

		for i, pg := range pages {
			assert.Equal(t, FirstPage+i, pg.Degree())
			assert.Equal(t, tt.width, pg.Width())
			assert.Equal(t, tt.height, pg.Height())
			assert.Equal(t, i == len(pages)-1, pg.Terminal())
		}
		assert.Equal(t, FirstPage+tt.pages-1, s.MaxDegree())
		assert.Same(t, pages[len(pages)-1], s.Terminal())
	}
}

func TestNewSequence_Options(t *testing.T) {
	s := newTestSequence(t, 3, 2,
		WithName("S^1 → S^3 → S^2"),
		WithBoundaryPolicy(BoundaryPolicy{RightBounded: false, UpperBounded: true}),
		WithMaxSteps(500),
	)
	assert.Equal(t, "S^1 → S^3 → S^2", s.Name())
	assert.Equal(t, BoundaryPolicy{RightBounded: false, UpperBounded: true}, s.BoundaryPolicy())
	assert.Equal(t, 500, s.maxSteps)
}

func TestSequence_PageLookup(t *testing.T) {
	s := newTestSequence(t, 3, 2)

	_, ok := s.Page(1)
	assert.False(t, ok)
	_, ok = s.Page(4)
	assert.False(t, ok)

	pg, ok := s.Page(3)
	require.True(t, ok)
	assert.Equal(t, 3, pg.Degree())
}

func TestSequence_FreshCellsAreUnknown(t *testing.T) {
	s := newTestSequence(t, 3, 2)
	for _, pg := range s.Pages() {
		for _, c := range pg.Cells() {
			assert.Equal(t, U, c.Label, c.Coord.String())
			assert.False(t, c.Virtual)
		}
	}
	assert.False(t, s.Resolved())
}

func TestSequence_ProductFill(t *testing.T) {
	s := newTestSequence(t, 3, 2)

	require.NoError(t, s.SetFiber([]label.Label{Z, Z}))
	require.NoError(t, s.SetBase([]label.Label{Z, O, Z}))

	assert.Equal(t, O, s.Get(2, 1, 1), "base[1] is zero")
	assert.Equal(t, Z, s.Get(2, 2, 1), "product of two units")

	want := [][]string{
		{"Z", "0", "Z"},
		{"Z", "0", "Z"},
	}
	if diff := cmp.Diff(want, grid(page(t, s, 2))); diff != "" {
		t.Errorf("E_2 mismatch (-want +got):\n%s", diff)
	}
}

func TestSequence_TerminalZeroCascade(t *testing.T) {
	s := newTestSequence(t, 5, 2)

	require.NoError(t, s.SetFiber([]label.Label{Z, Z}))
	require.NoError(t, s.SetTotal([]label.Label{Z, O, O, O, O, Z}))

	want := [][]string{
		{"Z", "0", "0", "0", "0"},
		{"0", "0", "0", "0", "Z"},
	}
	if diff := cmp.Diff(want, grid(s.Terminal())); diff != "" {
		t.Errorf("E_∞ mismatch (-want +got):\n%s", diff)
	}

	// The base of S^1 → S^5 → CP^2 is recovered on E_2.
	assert.Equal(t, []string{"Z", "0", "Z", "0", "Z"}, label.Symbols(s.Base()))
	assert.Equal(t, []string{"Z", "Z"}, label.Symbols(s.Fiber()))
	assert.True(t, s.Resolved())
}

func TestSequence_HopfFibration(t *testing.T) {
	s := newTestSequence(t, 3, 2)

	require.NoError(t, s.SetFiber([]label.Label{Z, Z}))
	require.NoError(t, s.SetTotal([]label.Label{Z, O, O, Z}))

	assert.Equal(t, []string{"Z", "0", "Z"}, label.Symbols(s.Base()))
	want := [][]string{
		{"Z", "0", "0"},
		{"0", "0", "Z"},
	}
	if diff := cmp.Diff(want, grid(s.Terminal())); diff != "" {
		t.Errorf("E_∞ mismatch (-want +got):\n%s", diff)
	}
}

func TestSequence_PathLoopFibration(t *testing.T) {
	// ΩS^3 → PS^3 → S^3: the fiber is infinite upwards, so the top edge
	// must not be treated as zero.
	s := newTestSequence(t, 4, 5,
		WithBoundaryPolicy(BoundaryPolicy{RightBounded: true, UpperBounded: false}))

	require.NoError(t, s.SetBase([]label.Label{Z, O, O, Z}))
	require.NoError(t, s.SetTotal([]label.Label{Z, O, O, O, O, O, O, O}))

	assert.Equal(t, []string{"Z", "0", "Z", "0", "Z"}, label.Symbols(s.Fiber()))
}

func TestSequence_Confluence_FiberThenBase(t *testing.T) {
	fiber := []label.Label{Z, Z}
	base := []label.Label{Z, O, Z}

	first := newTestSequence(t, 3, 2)
	require.NoError(t, first.SetFiber(fiber))
	require.NoError(t, first.SetBase(base))

	second := newTestSequence(t, 3, 2)
	require.NoError(t, second.SetBase(base))
	require.NoError(t, second.SetFiber(fiber))

	for r := FirstPage; r <= first.MaxDegree(); r++ {
		if diff := cmp.Diff(grid(page(t, first, r)), grid(page(t, second, r))); diff != "" {
			t.Errorf("E_%d differs by seeding order (-fiber-first +base-first):\n%s", r, diff)
		}
	}
}

func TestSequence_Confluence_TotalBeforeFiber(t *testing.T) {
	first := newTestSequence(t, 5, 2)
	require.NoError(t, first.SetFiber([]label.Label{Z, Z}))
	require.NoError(t, first.SetTotal([]label.Label{Z, O, O, O, O, Z}))

	second := newTestSequence(t, 5, 2)
	require.NoError(t, second.SetTotal([]label.Label{Z, O, O, O, O, Z}))
	require.NoError(t, second.SetFiber([]label.Label{Z, Z}))

	for r := FirstPage; r <= first.MaxDegree(); r++ {
		assert.Equal(t, grid(page(t, first, r)), grid(page(t, second, r)), "E_%d", r)
	}
}

func TestSequence_SetIdempotent(t *testing.T) {
	s := newTestSequence(t, 3, 2)

	require.NoError(t, s.Set(2, 1, 1, O))
	before := s.Deductions()

	require.NoError(t, s.Set(2, 1, 1, O))
	assert.Equal(t, O, s.Get(2, 1, 1))
	assert.Equal(t, before, s.Deductions(), "second set must not deduce anything")
}

func TestSequence_ContradictionDetection(t *testing.T) {
	s := newTestSequence(t, 3, 2)

	require.NoError(t, s.SetFiber([]label.Label{Z, Z}))
	require.NoError(t, s.SetBase([]label.Label{Z, Z, Z}))
	require.Equal(t, Z, s.Get(2, 1, 1))

	err := s.Set(2, 1, 1, O)
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, Coord{Page: 2, P: 1, Q: 1}, ce.Coord())
	assert.Equal(t, Z, ce.Existing)
	assert.Equal(t, O, ce.Attempted)
	assert.Contains(t, err.Error(), "E_2(1,1)")

	// The cell keeps its first label.
	assert.Equal(t, Z, s.Get(2, 1, 1))
}

func TestSequence_ConflictFromLateSeed(t *testing.T) {
	s := newTestSequence(t, 3, 2)

	require.NoError(t, s.Set(2, 2, 1, O))
	require.NoError(t, s.SetFiber([]label.Label{Z, Z}))

	// base[2] = Z makes the product deduce Z at (2,1), which was set to 0.
	err := s.SetBase([]label.Label{Z, O, Z})
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	// The sequence stays usable after a conflict.
	require.NoError(t, s.Set(2, 1, 0, O))
	assert.Equal(t, 0, s.queue.Len())
}

func TestSequence_SetIgnoresUnknownAndOutOfGrid(t *testing.T) {
	s := newTestSequence(t, 3, 2)

	require.NoError(t, s.Set(2, 1, 1, U))
	require.NoError(t, s.Set(2, 10, 10, Z))
	require.NoError(t, s.Set(2, -1, 0, Z))
	require.NoError(t, s.Set(9, 0, 0, Z))

	assert.Empty(t, s.Deductions())
}

func TestSequence_SeedsLongerThanGrid(t *testing.T) {
	s := newTestSequence(t, 3, 2)

	require.NoError(t, s.SetFiber([]label.Label{Z, Z, Z, Z}))
	require.NoError(t, s.SetBase([]label.Label{Z, O, Z, O, O}))

	assert.Equal(t, []string{"Z", "Z"}, label.Symbols(s.Fiber()))
	assert.Equal(t, []string{"Z", "0", "Z"}, label.Symbols(s.Base()))
}

func TestSequence_ShortSeedsLeaveTailUnknown(t *testing.T) {
	s := newTestSequence(t, 4, 3)

	require.NoError(t, s.SetFiber([]label.Label{Z}))
	require.NoError(t, s.SetBase([]label.Label{Z, U, O}))

	assert.Equal(t, []string{"Z", "?", "?"}, label.Symbols(s.Fiber()))
	assert.Equal(t, []string{"Z", "?", "0", "?"}, label.Symbols(s.Base()))
}

func TestSequence_SetTotalRecordsValues(t *testing.T) {
	s := newTestSequence(t, 3, 2)

	require.NoError(t, s.SetTotal([]label.Label{Z, U, O}))
	assert.Equal(t, []label.Label{Z, U, O}, s.Total())

	require.NoError(t, s.SetTotal([]label.Label{U, O}))
	assert.Equal(t, []label.Label{Z, O, O}, s.Total())

	// Diagonal 2 of E_∞ is (0,2) (out of grid), (1,1), (2,0).
	assert.Equal(t, O, s.Get(3, 1, 1))
	assert.Equal(t, O, s.Get(3, 2, 0))
}

func TestSequence_SetTotalBeyondGrid(t *testing.T) {
	s := newTestSequence(t, 3, 2)

	total := make([]label.Label, 20)
	for i := range total {
		total[i] = O
	}
	total[0] = Z
	require.NoError(t, s.SetTotal(total))
	assert.Len(t, s.Total(), 20)
}

func TestSequence_BoundaryDefault(t *testing.T) {
	s := newTestSequence(t, 3, 2)

	require.NoError(t, s.SetBoundaryPolicy(true, true))
	assert.Equal(t, O, s.Get(2, 10, 10))
	assert.Equal(t, O, s.Get(3, 10, 10))

	require.NoError(t, s.SetBoundaryPolicy(false, true))
	assert.Equal(t, U, s.Get(2, 10, 10))
	assert.Equal(t, U, s.Get(2, 5, 0))
	assert.Equal(t, O, s.Get(2, 0, 5))

	require.NoError(t, s.SetBoundaryPolicy(true, false))
	assert.Equal(t, O, s.Get(2, 5, 0))
	assert.Equal(t, U, s.Get(2, 0, 5))
	assert.Equal(t, U, s.Get(2, 10, 10))

	// Negative coordinates are zero under every policy.
	require.NoError(t, s.SetBoundaryPolicy(false, false))
	assert.Equal(t, O, s.Get(2, -1, 0))
	assert.Equal(t, O, s.Get(2, 0, -3))
}

func TestSequence_BoundaryChangePropagates(t *testing.T) {
	s := newTestSequence(t, 3, 2, WithBoundaryPolicy(BoundaryPolicy{RightBounded: false, UpperBounded: true}))

	// d_2 out of (1,1) lands on (3,0), right of the grid and unknown.
	require.NoError(t, s.Set(2, 1, 1, Z))
	assert.Equal(t, U, s.Get(3, 1, 1))

	require.NoError(t, s.SetBoundaryPolicy(true, true))
	assert.Equal(t, Z, s.Get(3, 1, 1))

	last := s.Deductions()[len(s.Deductions())-1]
	assert.Equal(t, Coord{Page: 3, P: 1, Q: 1}, last.Coord)
	assert.Equal(t, RulePageTurn, last.Rule)
}

func TestSequence_BoundaryChangeConflict(t *testing.T) {
	s := newTestSequence(t, 3, 2, WithBoundaryPolicy(BoundaryPolicy{RightBounded: false, UpperBounded: true}))

	require.NoError(t, s.Set(2, 1, 1, Z))
	require.NoError(t, s.Set(3, 1, 1, O))

	err := s.SetBoundaryPolicy(true, true)
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestSequence_BoundaryUnchangedIsNoop(t *testing.T) {
	s := newTestSequence(t, 3, 2, WithMaxSteps(1))

	require.NoError(t, s.SetBoundaryPolicy(true, true))
	assert.Empty(t, s.Deductions())
}

func TestSequence_GetMissingPage(t *testing.T) {
	s := newTestSequence(t, 3, 2)
	assert.Equal(t, U, s.Get(7, 0, 0))

	c := s.Cell(7, 0, 0)
	assert.True(t, c.Virtual)
	assert.Equal(t, U, c.Label)
}

func TestSequence_Monotonicity(t *testing.T) {
	s := newTestSequence(t, 5, 2)

	seen := map[Coord]label.Label{}
	snapshot := func() {
		for _, pg := range s.Pages() {
			for _, c := range pg.Cells() {
				prev, ok := seen[c.Coord]
				if ok && prev.IsDetermined() {
					assert.Equal(t, prev, c.Label, "%s changed after being determined", c.Coord)
				}
				seen[c.Coord] = c.Label
			}
		}
	}

	snapshot()
	require.NoError(t, s.SetFiber([]label.Label{Z, Z}))
	snapshot()
	for k, v := range []label.Label{Z, O, O, O, O, Z} {
		total := make([]label.Label, k+1)
		total[k] = v
		require.NoError(t, s.SetTotal(total))
		snapshot()
	}
}

func TestSequence_DeductionLog(t *testing.T) {
	s := newTestSequence(t, 3, 2)

	require.NoError(t, s.SetFiber([]label.Label{Z, Z}))
	require.NoError(t, s.SetBase([]label.Label{Z, O, Z}))

	log := s.Deductions()
	require.NotEmpty(t, log)

	for i, d := range log {
		assert.Equal(t, int64(i+1), d.Seq, "sequence numbers are dense and ordered")
		assert.Equal(t, d.Label, s.Get(d.Coord.Page, d.Coord.P, d.Coord.Q))
	}

	assert.Equal(t, Deduction{Seq: 1, Coord: Coord{Page: 2, P: 0, Q: 0}, Label: Z, Rule: RuleSeed}, log[0])

	rules := map[Rule]int{}
	for _, d := range log {
		rules[d.Rule]++
	}
	assert.Positive(t, rules[RuleProduct])
	assert.Positive(t, rules[RulePageTurn])
}

func TestSequence_SingleColumn(t *testing.T) {
	s := newTestSequence(t, 1, 3)

	require.NoError(t, s.SetFiber([]label.Label{Z, O, Z}))
	assert.Same(t, page(t, s, 2), s.Terminal())
	assert.Equal(t, []string{"Z", "0", "Z"}, label.Symbols(s.Terminal().Column(0)))
	assert.True(t, s.Resolved())
}

func TestSequence_StepBudget(t *testing.T) {
	s := newTestSequence(t, 5, 2, WithMaxSteps(1))

	err := s.SetFiber([]label.Label{Z, Z})
	require.Error(t, err)
	assert.True(t, IsStepsExceeded(err))
	assert.Equal(t, 0, s.queue.Len())
}
