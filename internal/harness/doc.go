// Package harness runs spectral sequence scenarios described in YAML.
//
// # Scenario Format
//
//	name: hopf
//	description: "Base of the Hopf fibration from fiber and total space"
//	width: 3
//	height: 2
//	bounds: {right: true, upper: true}
//	fiber: [Z, Z]
//	total: [Z, 0, 0, Z]
//	steps:
//	  - {page: 2, p: 1, q: 1, label: "0"}
//	assertions:
//	  - type: row
//	    page: 2
//	    q: 0
//	    labels: [Z, 0, Z]
//	  - type: resolved
//	    value: true
//
// A scenario may name a catalog entry with "example:" instead of giving
// dimensions; its seeds are applied first and the scenario's own seeds after.
// Seeds go in the order fiber, base, total, then steps. The first Conflict
// stops seeding.
//
// # Assertion Types
//
//   - cell: label (and optionally the deducing rule) of one cell
//   - row: every label of row q on a page, p ascending
//   - column: every label of column p on a page, q ascending
//   - resolved: whether every cell of every page is determined
//   - conflict: seeding stopped on a Conflict, optionally at page/p/q
//
// A Conflict without a conflict assertion fails the scenario.
package harness
