package engine

// Clock stamps deductions with a strictly increasing sequence number so the
// deduction log can be replayed and compared in order.
// The first call to Next returns 1.
type Clock struct {
	seq int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next increments the clock and returns the new value.
func (c *Clock) Next() int64 {
	c.seq++
	return c.seq
}

// Current returns the last value handed out.
func (c *Clock) Current() int64 {
	return c.seq
}
