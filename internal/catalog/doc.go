// Package catalog describes the relations a query may reference and checks
// translated expressions against them.
//
// A Catalog is loaded from a CUE file (LoadCUE) or read from a SQLite
// database's table definitions (FromStore). Check reports every schema
// violation of an RA expression at once, as CheckError values with E2xx
// codes.
package catalog
