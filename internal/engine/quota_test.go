package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/serress/internal/label"
)

func TestStepBudget_WithinLimit(t *testing.T) {
	b := newStepBudget(3)
	for i := 0; i < 3; i++ {
		require.NoError(t, b.Check())
	}
	assert.Equal(t, 3, b.Current())
}

func TestStepBudget_Exceeded(t *testing.T) {
	b := newStepBudget(2)
	require.NoError(t, b.Check())
	require.NoError(t, b.Check())

	err := b.Check()
	require.Error(t, err)
	assert.True(t, IsStepsExceeded(err))

	var se *StepsExceededError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 3, se.Steps)
	assert.Equal(t, 2, se.Limit)
	assert.Contains(t, err.Error(), string(ErrCodeStepsExceeded))
}

func TestDefaultMaxSteps_CoversWorstCase(t *testing.T) {
	cells := 2 * 5 * 2
	assert.GreaterOrEqual(t, defaultMaxSteps(cells), dependentFanout*cells)
}

func TestStepBudget_DefaultNeverHitOnRealSequence(t *testing.T) {
	s := newTestSequence(t, 4, 7,
		WithBoundaryPolicy(BoundaryPolicy{RightBounded: true, UpperBounded: false}))

	require.NoError(t, s.SetBase([]label.Label{Z, O, O, Z}))
	require.NoError(t, s.SetTotal([]label.Label{Z, O, O, O, O, O, O, O, O, O}))
	assert.Equal(t, []string{"Z", "0", "Z", "0", "Z", "0", "Z"}, label.Symbols(s.Fiber()))
}
