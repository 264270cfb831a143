package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/serress/internal/catalog"
	"github.com/roach88/serress/internal/engine"
)

// Harness runs scenarios against fresh sequences.
type Harness struct {
	catalog  *catalog.Catalog
	logger   *slog.Logger
	maxSteps int
}

// Option configures a Harness.
type Option func(*Harness)

// WithCatalog resolves "example:" names against c instead of the built-ins.
func WithCatalog(c *catalog.Catalog) Option {
	return func(h *Harness) {
		h.catalog = c
	}
}

// WithLogger sets the logger handed to every sequence. Logs are discarded
// by default.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// WithMaxSteps sets the per-drain step budget of every sequence.
func WithMaxSteps(n int) Option {
	return func(h *Harness) {
		h.maxSteps = n
	}
}

// New creates a Harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes scenario with the built-in catalog.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(scenario)
}

// Run builds the sequence, applies seeds and steps, and evaluates assertions.
//
// The returned error covers scenarios that cannot start: unknown examples,
// invalid dimensions, an exhausted step budget. Conflicts and failed
// assertions are reported in the Result.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	s, err := h.build(scenario)
	if s == nil {
		return nil, err
	}

	result := NewResult(s)
	if err == nil {
		err = h.seed(s, scenario)
	}

	var conflict *engine.ConflictError
	switch {
	case errors.As(err, &conflict):
		result.Conflict = conflict
	case err != nil:
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// build creates the sequence and applies catalog seeds. A non-nil sequence
// with a Conflict error means the example itself is contradictory.
func (h *Harness) build(scenario *Scenario) (*engine.Sequence, error) {
	opts := []engine.Option{
		engine.WithLogger(h.logger.With("scenario", scenario.Name)),
		engine.WithMaxSteps(h.maxSteps),
	}

	if scenario.Example == "" {
		opts = append(opts,
			engine.WithName(scenario.Name),
			engine.WithBoundaryPolicy(scenario.Bounds.Policy()),
		)
		return engine.NewSequence(scenario.Width, scenario.Height, opts...)
	}

	cat := h.catalog
	if cat == nil {
		builtin, err := catalog.Builtin()
		if err != nil {
			return nil, fmt.Errorf("load built-in catalog: %w", err)
		}
		cat = builtin
	}
	ex, err := cat.Lookup(scenario.Example)
	if err != nil {
		return nil, err
	}
	return ex.Build(opts...)
}

func (h *Harness) seed(s *engine.Sequence, scenario *Scenario) error {
	if err := s.SetFiber(Labels(scenario.Fiber)); err != nil {
		return err
	}
	if err := s.SetBase(Labels(scenario.Base)); err != nil {
		return err
	}
	if err := s.SetTotal(Labels(scenario.Total)); err != nil {
		return err
	}
	for _, step := range scenario.Steps {
		if err := s.Set(step.Page, step.P, step.Q, step.Label.Label); err != nil {
			return err
		}
	}
	return nil
}
