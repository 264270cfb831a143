package engine

import "github.com/roach88/serress/internal/label"

// Rule names the reason a cell was determined.
type Rule string

const (
	// RuleSeed is a direct assignment by the caller (Set, SetFiber, SetBase).
	RuleSeed Rule = "seed"

	// RuleTotal is a zero placed on an anti-diagonal of the terminal page by SetTotal.
	RuleTotal Rule = "total"

	// RuleProduct is the external product base[p] ⊗ fiber[q] on E_2.
	RuleProduct Rule = "product"

	// RulePageTurn copies a label between pages where both differentials vanish.
	RulePageTurn Rule = "page-turn"

	// RuleTransport copies a label across a differential that is an isomorphism.
	RuleTransport Rule = "transport"
)

// Deduction records one determination, in the order it happened.
type Deduction struct {
	Seq   int64
	Coord Coord
	Label label.Label
	Rule  Rule
}
