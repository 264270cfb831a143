package engine

import "github.com/roach88/serress/internal/label"

// determine assigns l to c and runs the worklist to a fixpoint.
// This is the only entry point that mutates labels on behalf of callers.
func (s *Sequence) determine(c Coord, l label.Label, rule Rule) error {
	changed, err := s.assign(c, l, rule)
	if err != nil || !changed {
		return err
	}
	return s.drain()
}

// drain examines queued cells until none remain. On error the remaining
// queue is discarded; labels already written stay.
func (s *Sequence) drain() error {
	budget := newStepBudget(s.maxSteps)
	for {
		c, ok := s.queue.pop()
		if !ok {
			return nil
		}
		if err := budget.Check(); err != nil {
			s.queue.reset()
			s.logger.Error("propagation budget exhausted", "steps", budget.Current(), "limit", s.maxSteps)
			return err
		}
		if err := s.examine(c); err != nil {
			s.queue.reset()
			return err
		}
	}
}

// assign writes l into an Unknown in-grid cell and queues its dependents.
//
// Returns changed=false without error for Unknown labels, out-of-grid
// positions and re-assignment of an equal label. A different label on a
// determined cell is a *ConflictError.
func (s *Sequence) assign(c Coord, l label.Label, rule Rule) (bool, error) {
	if !l.IsDetermined() || !s.inGrid(c) {
		return false, nil
	}
	pg, _ := s.Page(c.Page)
	cur := pg.Get(c.P, c.Q)
	if cur.IsDetermined() {
		if cur == l {
			return false, nil
		}
		return false, s.conflict(c, cur, l, rule)
	}

	pg.store(c.P, c.Q, l)
	d := Deduction{Seq: s.clock.Next(), Coord: c, Label: l, Rule: rule}
	s.trace = append(s.trace, d)
	s.logger.Debug("deduced", "seq", d.Seq, "cell", c.String(), "label", l.Display(), "rule", string(rule))

	s.touch(c)
	return true, nil
}

func (s *Sequence) conflict(c Coord, existing, attempted label.Label, rule Rule) *ConflictError {
	s.logger.Warn("conflicting assignment",
		"cell", c.String(), "existing", existing.Display(), "attempted", attempted.Display(), "rule", string(rule))
	return &ConflictError{Page: c.Page, P: c.P, Q: c.Q, Existing: existing, Attempted: attempted}
}

// touch queues every in-grid cell whose rules read the label at x:
//
//	x                the cell itself (product fill, its own pairs)
//	target(x)        reads x as its cotarget
//	cotarget(x)      reads x as its target
//	cotarget²(x)     its cotarget's zero-map test reads x
//	below(x)         its page-turn and injectivity tests read x
//	below.target     re-examined alongside below
//	below.cotarget   its surjectivity test reads x as target.above
func (s *Sequence) touch(x Coord) {
	b := x.Below()
	for _, c := range [dependentFanout]Coord{
		x,
		x.Target(),
		x.Cotarget(),
		x.Cotarget().Cotarget(),
		b,
		b.Target(),
		b.Cotarget(),
	} {
		if s.inGrid(c) {
			s.queue.push(c, s.slot(c))
		}
	}
}

// examine applies every rule rooted at c.
func (s *Sequence) examine(c Coord) error {
	if c.Page == FirstPage && (c.P == 0 || c.Q == 0) {
		if err := s.fillProduct(c); err != nil {
			return err
		}
	}
	if err := s.turnPage(c); err != nil {
		return err
	}
	if err := s.turnPage(c.Below()); err != nil {
		return err
	}
	return s.transport(c)
}

// fillProduct fills the part of the E_2 product region that depends on the
// fiber or base entry at c: (p, q) = base[p] ⊗ fiber[q] for p, q >= 1.
func (s *Sequence) fillProduct(c Coord) error {
	switch {
	case c.P == 0 && c.Q == 0:
		return nil
	case c.Q == 0:
		for q := 1; q < s.height; q++ {
			if err := s.fillProductCell(c.P, q); err != nil {
				return err
			}
		}
	default:
		for p := 1; p < s.width; p++ {
			if err := s.fillProductCell(p, c.Q); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Sequence) fillProductCell(p, q int) error {
	e2 := s.pages[0]
	v := e2.Get(p, 0).Combine(e2.Get(0, q))
	if !v.IsDetermined() {
		return nil
	}
	_, err := s.assign(Coord{Page: FirstPage, P: p, Q: q}, v, RuleProduct)
	return err
}

// zeroMap reports whether the differential leaving x is provably zero:
// its source or its target is trivial.
func (s *Sequence) zeroMap(x Coord) bool {
	return s.label(x).IsZero() || s.label(x.Target()).IsZero()
}

// survives reports whether x passes unchanged to the next page: the
// differentials leaving and arriving at x are both zero.
func (s *Sequence) survives(x Coord) bool {
	return s.zeroMap(x) && s.zeroMap(x.Cotarget())
}

// injective: ker(d) = 0. Either the source is trivial, or nothing survives
// at x on the next page while nothing arrives at x.
func (s *Sequence) injective(x Coord) bool {
	return s.label(x).IsZero() ||
		(s.label(x.Above()).IsZero() && s.zeroMap(x.Cotarget()))
}

// surjective: im(d) = target. Either the target is trivial, or nothing
// survives at the target on the next page while nothing leaves the target.
func (s *Sequence) surjective(x Coord) bool {
	t := x.Target()
	return s.label(t).IsZero() ||
		(s.label(t.Above()).IsZero() && s.zeroMap(t))
}

// turnPage links lower with the same position on the next page when lower survives.
func (s *Sequence) turnPage(lower Coord) error {
	upper := lower.Above()
	if !s.inGrid(lower) || !s.inGrid(upper) {
		return nil
	}
	if !s.survives(lower) {
		return nil
	}
	return s.link(lower, upper, RulePageTurn)
}

// transport links c with its target when the differential is an isomorphism.
func (s *Sequence) transport(c Coord) error {
	if !s.injective(c) || !s.surjective(c) {
		return nil
	}
	return s.link(c, c.Target(), RuleTransport)
}

// link copies the label of whichever of a, b is determined onto the other.
// Nothing happens when neither is determined; two different determined
// labels are a conflict at b.
func (s *Sequence) link(a, b Coord, rule Rule) error {
	la, lb := s.label(a), s.label(b)
	switch {
	case la.IsDetermined() && lb.IsDetermined():
		if la != lb {
			return s.conflict(b, lb, la, rule)
		}
	case la.IsDetermined() && !lb.IsDetermined():
		_, err := s.assign(b, la, rule)
		return err
	case lb.IsDetermined() && !la.IsDetermined():
		_, err := s.assign(a, lb, rule)
		return err
	}
	return nil
}
