// Package translate converts SQL query statements into relational algebra.
//
// The translated subset is
//
//	SELECT DISTINCT <attr-list|*> FROM <relation-list> [WHERE <conj-of-equalities>]
//
// Translation runs in three steps:
//
//  1. classify splits the statement's tokens into FROM, WHERE and SELECT groups
//  2. builders turn each group into RA fragments and insert them into a Tree:
//     relations first (a left-deep cross chain), then one selection per
//     condition, then one projection per attribute
//  3. Tree.Fold walks the tree bottom-up and emits the final expression,
//     merging chained selections into one conjunction and chained
//     projections into one attribute list
//
// Example:
//
//	select distinct Person.name from Person, Eats where Person.name = Eats.name
//
// becomes
//
//	\project_{Person.name} \select_{Person.name = Eats.name} (Person \cross Eats)
//
// Failures are *TranslateError values of kind UNSUPPORTED_CONSTRUCT,
// MALFORMED_INPUT or STRUCTURAL_INVARIANT_VIOLATION. No query optimization
// is performed.
package translate
