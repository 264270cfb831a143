package harness

import "github.com/roach88/serress/internal/engine"

// Result is the outcome of one scenario.
type Result struct {
	// Pass is true when every assertion held and no unexpected Conflict occurred.
	Pass bool `json:"pass"`

	// Errors lists failed assertions.
	Errors []string `json:"errors,omitempty"`

	// Conflict is the error that stopped seeding, if any.
	Conflict *engine.ConflictError `json:"-"`

	// Sequence is the final state. It stays readable after a Conflict.
	Sequence *engine.Sequence `json:"-"`
}

// NewResult creates a passing result for s.
func NewResult(s *engine.Sequence) *Result {
	return &Result{
		Pass:     true,
		Errors:   []string{},
		Sequence: s,
	}
}

// AddError records a failure.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
