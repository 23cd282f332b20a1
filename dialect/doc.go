// Package dialect provides the database dialect abstraction for querykit.
//
// It defines the interfaces and constants used for database-specific
// behavior, allowing querykit to target multiple relational backends.
//
// # Supported Dialects
//
// Each dialect is identified by a constant string:
//
//	dialect.Postgres  = "postgres"
//	dialect.MySQL     = "mysql"
//	dialect.SQLite    = "sqlite"
//	dialect.SQLServer = "sqlserver"
//
// The dialect decides placeholder rebinding, LIKE semantics, paging syntax
// and identity-return syntax. Statement building itself is dialect-aware but
// driver-independent; see the root querykit package.
//
// # Driver Interface
//
// The Driver interface is the execution collaborator the built statements
// are handed to:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// The Tx interface extends ExecQuerier with Commit and Rollback, and
// ExecQuerier is implemented by both Driver and Tx.
//
// # Usage
//
// Opening a database connection:
//
//	import (
//	    "github.com/syssam/querykit/dialect"
//	    "github.com/syssam/querykit/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// # Sub-packages
//
//   - dialect/sql: database/sql driver adapter, placeholder rebinding,
//     constraint-error classification and observability wrappers.
package dialect
