// Package harness runs housing query scenarios end to end.
//
// A scenario seeds a fresh store, runs projection queries through the full
// compile, execute and reshape pipeline, and checks the results.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	seed: ../../housing/testdata/housing.json   # relative to the scenario file
//	documents:                                   # inline documents, appended after seed
//	  - { CSDUID: "4801001", CSD: "Red Deer" }
//	key_casing: capitalize
//	steps:
//	  - name: apartments
//	    strategy: dot
//	    query:
//	      select: [CSDUID, Dimensions.Value]
//	      where: Dimensions.Value
//	      value: Apartment
//	      string: false
//	      limit: 0
//	    expect:
//	      count: 2
//	      rows: [{ CSDUID: "4801001", Value: "Apartment" }]
//	assertions:
//	  - type: oracle
//	  - type: strategies_agree
//	  - type: bind_parity
//
// A step whose expect.error is "validation" must be rejected before any SQL
// runs.
//
// # Assertion Types
//
//   - oracle: every successful step matches an independent evaluation of the
//     query over the seed documents, using RFC 9535 JSONPath for projection
//   - strategies_agree: every successful step returns the same data under
//     both projection strategies
//   - bind_parity: every compiled statement has one bind per placeholder
//   - row_count: the named step returned exactly count rows
//
// # Golden Files
//
// RunWithGolden snapshots the compiled SQL, binds and reshaped data of every
// step under testdata/golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
