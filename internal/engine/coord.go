package engine

import (
	"fmt"

	"github.com/roach88/serress/internal/label"
)

// Coord identifies a cell: page r and bidegree (p, q).
// The page index is also the degree of the differential on that page.
type Coord struct {
	Page int
	P    int
	Q    int
}

// String renders the coordinate as E_r(p,q).
func (c Coord) String() string {
	return fmt.Sprintf("E_%d(%d,%d)", c.Page, c.P, c.Q)
}

// Target is the codomain of the differential d_r leaving c: (p+r, q-r+1).
func (c Coord) Target() Coord {
	r := c.Page
	return Coord{Page: r, P: c.P + r, Q: c.Q - r + 1}
}

// Cotarget is the domain of the differential d_r arriving at c: (p-r, q+r-1).
func (c Coord) Cotarget() Coord {
	r := c.Page
	return Coord{Page: r, P: c.P - r, Q: c.Q + r - 1}
}

// Above is the same position on the next page.
func (c Coord) Above() Coord {
	return Coord{Page: c.Page + 1, P: c.P, Q: c.Q}
}

// Below is the same position on the previous page.
func (c Coord) Below() Coord {
	return Coord{Page: c.Page - 1, P: c.P, Q: c.Q}
}

// TotalDegree is p+q, the anti-diagonal the cell lies on.
func (c Coord) TotalDegree() int {
	return c.P + c.Q
}

// Cell is a read-only view of one position on one page.
// Virtual cells lie outside the grid; their label comes from the boundary policy.
type Cell struct {
	Coord
	Label   label.Label
	Virtual bool
}

// BoundaryPolicy controls the labels of out-of-grid positions.
//
// A position past the right edge (p >= width) is Zero only when RightBounded,
// a position past the top edge (q >= height) only when UpperBounded; if any
// out-of-grid direction is unbounded the position is Unknown. Negative
// coordinates are always Zero.
type BoundaryPolicy struct {
	RightBounded bool
	UpperBounded bool
}

// DefaultBoundaryPolicy treats the grid as the whole first quadrant.
func DefaultBoundaryPolicy() BoundaryPolicy {
	return BoundaryPolicy{RightBounded: true, UpperBounded: true}
}
