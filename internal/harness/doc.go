// Package harness runs translation scenarios.
//
// A scenario is a YAML file listing SQL statements together with what each
// one must produce: the RA text, a translation error kind, catalog check
// codes, or the rows its evaluation returns. Every scenario runs against a
// fresh in-memory SQLite database filled by its setup statements, so
// scenarios are isolated and deterministic.
//
// Example:
//
//	name: pizza_selection
//	description: Selections over Person
//	catalog: ../catalogs/pizza.cue
//	cases:
//	  - name: age
//	    sql: select distinct * from Person where age = 16
//	    expect: \select_{age = 16} Person
//	  - name: or
//	    sql: select distinct * from Person where age = 16 or age = 17
//	    error: UNSUPPORTED_CONSTRUCT
//
// Results can be compared against golden snapshots (see Snapshot), with
// goldie in tests and with RunSuite from the command line.
package harness
