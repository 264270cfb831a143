// Package label defines the value stored in every cell of a spectral sequence.
//
// A Label is either Unknown or a determined rank Value(n), n >= 0. Value(0) is
// the trivial group (Zero) and Value(1) a single copy of the integers (Unit).
// Labels are compared by value; the zero Label is Unknown.
package label

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxRank is the largest rank Parse accepts. The product of two such ranks
// still fits in an int on 64-bit platforms.
const MaxRank = math.MaxInt32

// Label is the rank of a cell, or Unknown.
type Label struct {
	rank  int
	known bool
}

var (
	// Unknown is the label of a cell nothing has been deduced about.
	Unknown = Label{}

	// Zero is the trivial group.
	Zero = Value(0)

	// Unit is a single copy of Z.
	Unit = Value(1)
)

// Value returns the determined label of rank n.
// Panics if n is negative (ranks are non-negative by construction).
func Value(n int) Label {
	if n < 0 {
		panic(fmt.Sprintf("label: negative rank %d", n))
	}
	return Label{rank: n, known: true}
}

// IsZero reports whether l is determined and trivial.
func (l Label) IsZero() bool {
	return l.known && l.rank == 0
}

// IsDetermined reports whether l carries a rank.
func (l Label) IsDetermined() bool {
	return l.known
}

// Rank returns the rank and whether l is determined.
func (l Label) Rank() (int, bool) {
	return l.rank, l.known
}

// Combine applies the external-product rule used to seed page 2:
// the product of two ranks, where zero absorbs even an Unknown operand.
// A product too large for an int is Unknown.
func (l Label) Combine(other Label) Label {
	if l.IsZero() || other.IsZero() {
		return Zero
	}
	if !l.known || !other.known {
		return Unknown
	}
	if l.rank > math.MaxInt/other.rank {
		return Unknown
	}
	return Value(l.rank * other.rank)
}

// Display returns the grid symbol: "Z" for Unit, "0" for Zero, "?" for Unknown.
// Higher ranks render as "Z^n" so they are never confused with Unit.
func (l Label) Display() string {
	switch {
	case !l.known:
		return "?"
	case l.rank == 0:
		return "0"
	case l.rank == 1:
		return "Z"
	default:
		return "Z^" + strconv.Itoa(l.rank)
	}
}

// String implements fmt.Stringer.
func (l Label) String() string {
	return l.Display()
}

// ParseError reports label text that is not a symbol or a rank.
type ParseError struct {
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid label %q: want Z, 0, ?, Z^n or a rank in 0..%d", e.Text, MaxRank)
}

// Parse reads a single label. Accepted forms:
//
//	"Z"        Unit
//	"0"        Zero
//	"?", ""    Unknown
//	"Z^3"      rank 3
//	"2"        rank 2
//
// Ranks above MaxRank are rejected.
func Parse(s string) (Label, error) {
	text := strings.TrimSpace(s)
	switch text {
	case "", "?":
		return Unknown, nil
	case "Z":
		return Unit, nil
	}

	digits := text
	if rest, ok := strings.CutPrefix(text, "Z^"); ok {
		digits = rest
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 || n > MaxRank {
		return Unknown, &ParseError{Text: s}
	}
	return Value(n), nil
}

// ParseList reads a comma-separated list of labels, e.g. "Z,0,0,Z".
// An empty string yields an empty list.
func ParseList(s string) ([]Label, error) {
	if strings.TrimSpace(s) == "" {
		return []Label{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]Label, 0, len(parts))
	for _, part := range parts {
		l, err := Parse(part)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// Symbols renders a list of labels with Display.
func Symbols(labels []Label) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = l.Display()
	}
	return out
}
