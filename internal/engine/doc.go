// Package engine computes the pages of a spectral sequence by constraint
// propagation.
//
// A Sequence owns a fixed stack of Pages, E_2 through the terminal page E_∞.
// Every in-grid position holds a label.Label that is written at most once:
// Unknown → Value(n), never back. Callers seed a sparse set of cells (the
// fiber column and base row of E_2, the anti-diagonals of E_∞ via the total
// array, or individual cells) and the engine deduces as much of the rest as
// the consistency rules allow.
//
// ARCHITECTURE:
//
// Arena, not pointers:
// Cells live in one flat slice per page. The structural relations of a cell
// (target, cotarget, above, below) are computed from its Coord and resolved
// through the Sequence on every access. Out-of-grid coordinates resolve to
// virtual labels governed by the live BoundaryPolicy.
//
// Explicit worklist:
// Assignment never fires callbacks. determine() writes the label, records a
// Deduction and pushes the cells whose rules read that label onto a FIFO
// worklist; drain() examines cells until the worklist is empty. A cell is
// queued at most once at a time, and a cell is only re-queued when a label it
// depends on changes, so every pass terminates.
//
// Rules examined for a cell c (see propagate.go):
//  1. product: on E_2, a determined fiber/base entry fills its row/column
//     of the product region with base[p] ⊗ fiber[q].
//  2. page-turn: when both differentials touching c vanish, c and the same
//     position on the next page carry the same label.
//  3. transport: when the differential out of c is provably an isomorphism,
//     c and its target carry the same label.
//
// A contradictory assignment returns *ConflictError and discards the rest of
// the worklist; labels committed before the conflict stay in place.
//
// Concurrency: a Sequence is not safe for concurrent use. Callers sharing a
// Sequence between goroutines must serialize access themselves.
package engine
