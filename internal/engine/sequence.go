package engine

import (
	"log/slog"

	"github.com/roach88/serress/internal/label"
)

// FirstPage is the index of the first page with content.
const FirstPage = 2

// Sequence is a spectral sequence of fixed size: pages E_2 .. E_∞, each a
// width × height grid, plus the total array indexed by p+q.
//
// Pages and cells are allocated once in NewSequence and never resized.
type Sequence struct {
	name     string
	width    int
	height   int
	bounds   BoundaryPolicy
	pages    []*Page
	total    []label.Label
	logger   *slog.Logger
	maxSteps int
	queue    *worklist
	clock    *Clock
	trace    []Deduction
}

// Option configures a Sequence at construction.
type Option func(*Sequence)

// WithLogger sets the logger used for deduction and conflict records.
// Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Sequence) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxSteps overrides the per-pass step budget. Zero keeps the default,
// which is derived from the number of cells.
func WithMaxSteps(n int) Option {
	return func(s *Sequence) {
		if n > 0 {
			s.maxSteps = n
		}
	}
}

// WithName attaches a display name, e.g. "S^1 → S^3 → S^2".
func WithName(name string) Option {
	return func(s *Sequence) {
		s.name = name
	}
}

// WithBoundaryPolicy sets the initial boundary policy.
// Default: DefaultBoundaryPolicy().
func WithBoundaryPolicy(b BoundaryPolicy) Option {
	return func(s *Sequence) {
		s.bounds = b
	}
}

// NewSequence allocates a width × height sequence.
//
// The number of pages is min(width-1, height); a single-column sequence still
// gets one page, which is then both E_2 and E_∞. Returns
// *InvalidDimensionsError if width or height is not positive.
func NewSequence(width, height int, opts ...Option) (*Sequence, error) {
	if width <= 0 || height <= 0 {
		return nil, &InvalidDimensionsError{Width: width, Height: height}
	}

	s := &Sequence{
		width:  width,
		height: height,
		bounds: DefaultBoundaryPolicy(),
		logger: slog.Default(),
		clock:  NewClock(),
	}
	for _, opt := range opts {
		opt(s)
	}

	count := max(min(width-1, height), 1)
	s.pages = make([]*Page, count)
	for i := range s.pages {
		s.pages[i] = newPage(FirstPage+i, width, height, &s.bounds)
	}
	s.pages[count-1].terminal = true

	cells := count * width * height
	s.queue = newWorklist(cells)
	if s.maxSteps == 0 {
		s.maxSteps = defaultMaxSteps(cells)
	}

	return s, nil
}

// Name returns the display name, possibly empty.
func (s *Sequence) Name() string { return s.name }

// Width returns the number of columns of every page.
func (s *Sequence) Width() int { return s.width }

// Height returns the number of rows of every page.
func (s *Sequence) Height() int { return s.height }

// MaxDegree returns the index of the terminal page.
func (s *Sequence) MaxDegree() int { return FirstPage + len(s.pages) - 1 }

// BoundaryPolicy returns the current policy.
func (s *Sequence) BoundaryPolicy() BoundaryPolicy { return s.bounds }

// SetBoundaryPolicy changes the out-of-grid convention for every page and
// re-examines every cell, so deductions the new virtual labels allow are made
// at once. Labels already deduced are kept; a deduction that contradicts one
// of them is a *ConflictError.
func (s *Sequence) SetBoundaryPolicy(rightBounded, upperBounded bool) error {
	bounds := BoundaryPolicy{RightBounded: rightBounded, UpperBounded: upperBounded}
	if bounds == s.bounds {
		return nil
	}
	s.bounds = bounds
	s.logger.Debug("boundary policy changed", "right_bounded", rightBounded, "upper_bounded", upperBounded)

	for _, pg := range s.pages {
		for q := 0; q < pg.height; q++ {
			for p := 0; p < pg.width; p++ {
				c := Coord{Page: pg.degree, P: p, Q: q}
				s.queue.push(c, s.slot(c))
			}
		}
	}
	return s.drain()
}

// Page returns E_r, or false if r is outside [FirstPage, MaxDegree].
func (s *Sequence) Page(r int) (*Page, bool) {
	i := r - FirstPage
	if i < 0 || i >= len(s.pages) {
		return nil, false
	}
	return s.pages[i], true
}

// Pages returns every page in increasing degree.
func (s *Sequence) Pages() []*Page {
	out := make([]*Page, len(s.pages))
	copy(out, s.pages)
	return out
}

// Terminal returns E_∞.
func (s *Sequence) Terminal() *Page {
	return s.pages[len(s.pages)-1]
}

// Get returns the label at (page, p, q). Missing pages read as Unknown,
// out-of-grid positions follow the boundary policy.
func (s *Sequence) Get(page, p, q int) label.Label {
	return s.label(Coord{Page: page, P: p, Q: q})
}

// Cell returns the view of (page, p, q).
func (s *Sequence) Cell(page, p, q int) Cell {
	pg, ok := s.Page(page)
	if !ok {
		return Cell{Coord: Coord{Page: page, P: p, Q: q}, Label: label.Unknown, Virtual: true}
	}
	return pg.Cell(p, q)
}

func (s *Sequence) label(c Coord) label.Label {
	pg, ok := s.Page(c.Page)
	if !ok {
		return label.Unknown
	}
	return pg.Get(c.P, c.Q)
}

func (s *Sequence) inGrid(c Coord) bool {
	pg, ok := s.Page(c.Page)
	return ok && pg.contains(c.P, c.Q)
}

// slot is the worklist index of an in-grid coordinate.
func (s *Sequence) slot(c Coord) int {
	return ((c.Page-FirstPage)*s.height+c.Q)*s.width + c.P
}

// Set determines one cell and propagates. Unknown labels and out-of-grid
// positions are ignored; setting an equal label again is a no-op.
func (s *Sequence) Set(page, p, q int, l label.Label) error {
	return s.determine(Coord{Page: page, P: p, Q: q}, l, RuleSeed)
}

// SetFiber writes column 0 of E_2: values[q] goes to (0, q).
// Unknown entries are skipped; entries past the top of the grid are ignored.
func (s *Sequence) SetFiber(values []label.Label) error {
	for q, v := range values {
		if err := s.determine(Coord{Page: FirstPage, P: 0, Q: q}, v, RuleSeed); err != nil {
			return err
		}
	}
	return nil
}

// SetBase writes row 0 of E_2: values[p] goes to (p, 0).
func (s *Sequence) SetBase(values []label.Label) error {
	for p, v := range values {
		if err := s.determine(Coord{Page: FirstPage, P: p, Q: 0}, v, RuleSeed); err != nil {
			return err
		}
	}
	return nil
}

// SetTotal records the total array. A Zero at index k places Zero on every
// terminal-page cell with p+q == k; each placement propagates.
// Non-zero entries are recorded for callers but deduce nothing.
func (s *Sequence) SetTotal(values []label.Label) error {
	if len(values) > len(s.total) {
		grown := make([]label.Label, len(values))
		copy(grown, s.total)
		s.total = grown
	}

	terminal := s.Terminal()
	for k, v := range values {
		if !v.IsDetermined() {
			continue
		}
		s.total[k] = v
		if !v.IsZero() {
			continue
		}
		for p := 0; p <= k && p < s.width; p++ {
			q := k - p
			if q >= s.height {
				continue
			}
			c := Coord{Page: terminal.degree, P: p, Q: q}
			if err := s.determine(c, label.Zero, RuleTotal); err != nil {
				return err
			}
		}
	}
	return nil
}

// Fiber returns column 0 of E_2.
func (s *Sequence) Fiber() []label.Label {
	return s.pages[0].Column(0)
}

// Base returns row 0 of E_2.
func (s *Sequence) Base() []label.Label {
	return s.pages[0].Row(0)
}

// Total returns the recorded total array.
func (s *Sequence) Total() []label.Label {
	out := make([]label.Label, len(s.total))
	copy(out, s.total)
	return out
}

// Deductions returns the log of every determination so far.
func (s *Sequence) Deductions() []Deduction {
	out := make([]Deduction, len(s.trace))
	copy(out, s.trace)
	return out
}

// Resolved reports whether every in-grid cell of every page is determined.
func (s *Sequence) Resolved() bool {
	for _, pg := range s.pages {
		if pg.Determined() != pg.width*pg.height {
			return false
		}
	}
	return true
}
