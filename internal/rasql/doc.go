// Package rasql compiles translated relational algebra back into SQLite
// queries so the result of a translation can be evaluated against real
// data.
package rasql
