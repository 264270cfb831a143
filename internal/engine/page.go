package engine

import "github.com/roach88/serress/internal/label"

// Page is the grid E_r for one degree r.
//
// Labels are stored row-major (index q*width + p). The boundary policy is a
// pointer into the owning Sequence and is read on every out-of-grid lookup,
// so changing the policy takes effect immediately on every page.
type Page struct {
	degree   int
	width    int
	height   int
	terminal bool
	cells    []label.Label
	bounds   *BoundaryPolicy
}

func newPage(degree, width, height int, bounds *BoundaryPolicy) *Page {
	return &Page{
		degree: degree,
		width:  width,
		height: height,
		cells:  make([]label.Label, width*height),
		bounds: bounds,
	}
}

// Degree returns r, the page index and differential degree.
func (pg *Page) Degree() int { return pg.degree }

// Width returns the number of columns (p values).
func (pg *Page) Width() int { return pg.width }

// Height returns the number of rows (q values).
func (pg *Page) Height() int { return pg.height }

// Terminal reports whether this is the page at infinity.
func (pg *Page) Terminal() bool { return pg.terminal }

func (pg *Page) contains(p, q int) bool {
	return p >= 0 && p < pg.width && q >= 0 && q < pg.height
}

// Get returns the label at (p, q). Never panics: out-of-grid positions
// return the virtual label chosen by the boundary policy.
func (pg *Page) Get(p, q int) label.Label {
	if pg.contains(p, q) {
		return pg.cells[q*pg.width+p]
	}
	return pg.virtual(p, q)
}

func (pg *Page) virtual(p, q int) label.Label {
	if p < 0 || q < 0 {
		return label.Zero
	}
	if p >= pg.width && !pg.bounds.RightBounded {
		return label.Unknown
	}
	if q >= pg.height && !pg.bounds.UpperBounded {
		return label.Unknown
	}
	return label.Zero
}

// Cell returns the view of (p, q), virtual if outside the grid.
func (pg *Page) Cell(p, q int) Cell {
	return Cell{
		Coord:   Coord{Page: pg.degree, P: p, Q: q},
		Label:   pg.Get(p, q),
		Virtual: !pg.contains(p, q),
	}
}

// store writes an in-grid label without any propagation.
// Out-of-grid writes are ignored.
func (pg *Page) store(p, q int, l label.Label) {
	if pg.contains(p, q) {
		pg.cells[q*pg.width+p] = l
	}
}

// Row returns the labels at fixed q, length width, in increasing p.
func (pg *Page) Row(q int) []label.Label {
	out := make([]label.Label, pg.width)
	for p := range out {
		out[p] = pg.Get(p, q)
	}
	return out
}

// Column returns the labels at fixed p, length height, in increasing q.
func (pg *Page) Column(p int) []label.Label {
	out := make([]label.Label, pg.height)
	for q := range out {
		out[q] = pg.Get(p, q)
	}
	return out
}

// Cells returns every in-grid cell, p varying fastest.
func (pg *Page) Cells() []Cell {
	out := make([]Cell, 0, len(pg.cells))
	for q := 0; q < pg.height; q++ {
		for p := 0; p < pg.width; p++ {
			out = append(out, pg.Cell(p, q))
		}
	}
	return out
}

// Determined counts the in-grid cells that carry a label.
func (pg *Page) Determined() int {
	n := 0
	for _, l := range pg.cells {
		if l.IsDetermined() {
			n++
		}
	}
	return n
}
