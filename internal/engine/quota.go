package engine

// stepBudget bounds the number of cells one propagation pass may examine.
//
// Every examination is caused by a label changing, each cell changes at most
// once, and a change queues at most dependentFanout cells, so a correct pass
// never needs more than cells*dependentFanout steps. The default limit adds
// headroom on top of that.
type stepBudget struct {
	limit   int
	current int
}

// dependentFanout is the number of cells touch() may queue for one change.
const dependentFanout = 7

// defaultMaxSteps returns the budget for a sequence with the given cell count.
func defaultMaxSteps(cells int) int {
	return (dependentFanout+1)*cells + 64
}

func newStepBudget(limit int) *stepBudget {
	return &stepBudget{limit: limit}
}

// Check counts one step and fails once the limit is passed.
func (b *stepBudget) Check() error {
	b.current++
	if b.current > b.limit {
		return &StepsExceededError{Steps: b.current, Limit: b.limit}
	}
	return nil
}

// Current returns the number of steps taken so far.
func (b *stepBudget) Current() int {
	return b.current
}
