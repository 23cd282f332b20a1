// Package querykit builds parameterized SQL statements from typed entity
// definitions and maps result rows back into Go values. It sits between
// application code and database/sql: callers describe what they want in
// terms of entity members, and querykit produces dialect-correct SQL with
// every caller value bound as a parameter.
//
// # Queries
//
//	type Product struct {
//	    Id    int
//	    Name  string `db:"product_name"`
//	    Price float64
//	}
//
//	q := querykit.NewQuery[Product](dialect.Postgres, querykit.WithPluralizedTables()).
//	    Where(expr.GT(expr.C("Price"), 100)).
//	    OrderBy("Name").
//	    Take(20)
//	stmt, err := q.BuildSelect()
//	// stmt.SQL:  SELECT Id, product_name, Price FROM Products
//	//            WHERE (Price > @p0) ORDER BY product_name ASC LIMIT 20
//	// stmt.Args: [100]
//
// Placeholders are always emitted as @p0, @p1, ... in statement order; the
// dialect/sql adapter rewrites them to the driver's native form at
// execution time.
//
// # Predicates
//
// The expr package provides the predicate vocabulary: comparisons, string
// matching with wildcard escaping, membership, and boolean composition.
// Values supplied through predicates never reach the SQL text.
//
// # Mapping
//
// Scan and ScanRow materialize rows into structs, matching columns to
// members by resolved name. Missing columns and NULLs yield zero values.
// ScanMaps returns column-keyed records when no entity type fits.
// RegisterAccessor and RegisterScanner install compiled per-type fast
// paths that bypass reflection.
//
// # Errors
//
// Failures carry typed errors (InvalidIdentifierError, MissingPredicateError,
// UnorderedPagingError, ...) that match their sentinels under errors.Is.
// Fluent calls record invalid input at the offending call; Build* surfaces
// everything accumulated.
package querykit
