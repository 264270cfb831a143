// Package render draws spectral sequence pages as text grids and JSON snapshots.
//
// Text layout, one block per page, top row first:
//
//	E_2
//	1 | Z 0 Z
//	0 | Z 0 Z
//	  +------
//	    0 1 2
//
// The terminal page is titled E_∞.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/serress/internal/engine"
	"github.com/roach88/serress/internal/label"
)

// Title returns "E_r", or "E_∞" for the terminal page.
func Title(pg *engine.Page) string {
	if pg.Terminal() {
		return "E_∞"
	}
	return "E_" + strconv.Itoa(pg.Degree())
}

// Page renders one page without a trailing newline.
func Page(pg *engine.Page) string {
	rowW := len(strconv.Itoa(pg.Height() - 1))
	colW := len(strconv.Itoa(pg.Width() - 1))
	for _, c := range pg.Cells() {
		colW = max(colW, len(c.Label.Display()))
	}

	lines := make([]string, 0, pg.Height()+3)
	lines = append(lines, Title(pg))

	for q := pg.Height() - 1; q >= 0; q-- {
		var b strings.Builder
		fmt.Fprintf(&b, "%*d |", rowW, q)
		for _, l := range pg.Row(q) {
			fmt.Fprintf(&b, " %-*s", colW, l.Display())
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}

	lines = append(lines, strings.Repeat(" ", rowW)+" +"+strings.Repeat("-", pg.Width()*(colW+1)))

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", rowW+2))
	for p := 0; p < pg.Width(); p++ {
		fmt.Fprintf(&b, " %-*d", colW, p)
	}
	lines = append(lines, strings.TrimRight(b.String(), " "))

	return strings.Join(lines, "\n")
}

// Pages renders the given pages separated by blank lines, preceded by name
// when it is not empty. The result ends with a newline.
func Pages(name string, pages []*engine.Page) string {
	blocks := make([]string, 0, len(pages)+1)
	if name != "" {
		blocks = append(blocks, name)
	}
	for _, pg := range pages {
		blocks = append(blocks, Page(pg))
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

// Sequence renders every page of s.
func Sequence(s *engine.Sequence) string {
	return Pages(s.Name(), s.Pages())
}

// Terminal renders only E_∞ of s.
func Terminal(s *engine.Sequence) string {
	return Pages(s.Name(), []*engine.Page{s.Terminal()})
}

// Deductions renders the deduction log one entry per line.
func Deductions(log []engine.Deduction) string {
	var b strings.Builder
	for _, d := range log {
		fmt.Fprintf(&b, "%4d  %-12s %-4s %s\n", d.Seq, d.Coord, d.Label.Display(), d.Rule)
	}
	return b.String()
}

// PageSnapshot is the JSON form of one page. Rows are indexed [q][p].
type PageSnapshot struct {
	Degree   int        `json:"degree"`
	Title    string     `json:"title"`
	Terminal bool       `json:"terminal"`
	Rows     [][]string `json:"rows"`
}

// BoundsSnapshot is the JSON form of the boundary policy.
type BoundsSnapshot struct {
	Right bool `json:"right"`
	Upper bool `json:"upper"`
}

// SequenceSnapshot is the JSON form of a whole sequence.
type SequenceSnapshot struct {
	Name       string         `json:"name,omitempty"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Bounds     BoundsSnapshot `json:"bounds"`
	Fiber      []string       `json:"fiber"`
	Base       []string       `json:"base"`
	Total      []string       `json:"total"`
	Resolved   bool           `json:"resolved"`
	Deductions int            `json:"deductions"`
	Pages      []PageSnapshot `json:"pages"`
}

// SnapshotPage captures pg.
func SnapshotPage(pg *engine.Page) PageSnapshot {
	rows := make([][]string, pg.Height())
	for q := range rows {
		rows[q] = label.Symbols(pg.Row(q))
	}
	return PageSnapshot{
		Degree:   pg.Degree(),
		Title:    Title(pg),
		Terminal: pg.Terminal(),
		Rows:     rows,
	}
}

// Snapshot captures s. With terminalOnly only E_∞ is included in Pages.
func Snapshot(s *engine.Sequence, terminalOnly bool) SequenceSnapshot {
	pages := s.Pages()
	if terminalOnly {
		pages = []*engine.Page{s.Terminal()}
	}
	snaps := make([]PageSnapshot, len(pages))
	for i, pg := range pages {
		snaps[i] = SnapshotPage(pg)
	}

	bounds := s.BoundaryPolicy()
	return SequenceSnapshot{
		Name:       s.Name(),
		Width:      s.Width(),
		Height:     s.Height(),
		Bounds:     BoundsSnapshot{Right: bounds.RightBounded, Upper: bounds.UpperBounded},
		Fiber:      label.Symbols(s.Fiber()),
		Base:       label.Symbols(s.Base()),
		Total:      label.Symbols(s.Total()),
		Resolved:   s.Resolved(),
		Deductions: len(s.Deductions()),
		Pages:      snaps,
	}
}
