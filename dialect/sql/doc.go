// Package sql is the execution adapter between compiled statements and
// database/sql. It wraps a *sql.DB or *sql.Tx behind the dialect.Driver
// interface and rewrites the builder's positional placeholders into the
// form each driver expects.
//
// # Opening a driver
//
//	import "github.com/syssam/querykit/dialect"
//
//	drv, err := sql.Open(dialect.Postgres, dsn)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// An existing *sql.DB can be wrapped with OpenDB.
//
// # Placeholder rebinding
//
// Compiled statements carry placeholders in @pN form. Conn rewrites them
// through Rebind before execution: $1, $2, ... for postgres, ? for mysql
// and sqlite, and unchanged for sqlserver. Binding is positional, so the
// rewrite never reorders arguments.
//
// # Executing
//
//	stmt, err := q.BuildSelect()
//	var rows sql.Rows
//	err = drv.Query(ctx, stmt.SQL, stmt.Args(), &rows)
//
// # Instrumentation
//
// StatsDriver collects counters and slow-query detection; DebugDriver logs
// every statement. Both wrap a *Driver and satisfy dialect.Driver, so they
// stack freely.
//
// # Constraint errors
//
// IsUniqueConstraintError, IsForeignKeyConstraintError and
// IsCheckConstraintError classify driver errors across postgres (lib/pq),
// mysql (go-sql-driver) and sqlite (modernc.org/sqlite), with string
// fallbacks for other drivers.
package sql
