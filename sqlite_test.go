package querykit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/querykit"
	"github.com/syssam/querykit/dialect"
	qsql "github.com/syssam/querykit/dialect/sql"
	"github.com/syssam/querykit/expr"
)

type item struct {
	Id    int     `db:"id"`
	Name  string  `db:"name"`
	Price float64 `db:"price"`
}

func (item) TableName() string { return "items" }

func openSQLite(t *testing.T) *qsql.Driver {
	t.Helper()
	drv, err := qsql.Open(dialect.SQLite, ":memory:")
	require.NoError(t, err)
	// In-memory databases are per-connection.
	drv.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { drv.Close() })

	ctx := context.Background()
	err = drv.Exec(ctx, `
		CREATE TABLE items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			price REAL NOT NULL
		)`, []any{}, nil)
	require.NoError(t, err)
	return drv
}

func insertItem(t *testing.T, drv *qsql.Driver, it item) {
	t.Helper()
	stmt, err := querykit.NewQuery[item](dialect.SQLite).BuildInsert(it)
	require.NoError(t, err)
	require.NoError(t, drv.Exec(context.Background(), stmt.SQL, stmt.Args(), nil))
}

func TestSQLiteRoundTrip(t *testing.T) {
	drv := openSQLite(t)
	ctx := context.Background()

	insertItem(t, drv, item{Name: "saw", Price: 25.5})
	insertItem(t, drv, item{Name: "hammer", Price: 12.0})
	insertItem(t, drv, item{Name: "tape", Price: 3.5})

	stmt, err := querykit.NewQuery[item](dialect.SQLite).
		Where(expr.GT(expr.C("Price"), 5.0)).
		OrderBy("Name").
		BuildSelect()
	require.NoError(t, err)

	var rows qsql.Rows
	require.NoError(t, drv.Query(ctx, stmt.SQL, stmt.Args(), &rows))
	items, err := querykit.Scan[item](rows)
	require.NoError(t, err)
	require.NoError(t, rows.Close())

	require.Len(t, items, 2)
	assert.Equal(t, "hammer", items[0].Name)
	assert.Equal(t, "saw", items[1].Name)
	assert.Equal(t, 25.5, items[1].Price)
	assert.NotZero(t, items[1].Id)
}

func TestSQLiteUpdateDelete(t *testing.T) {
	drv := openSQLite(t)
	ctx := context.Background()

	insertItem(t, drv, item{Name: "saw", Price: 25.5})

	stmt, err := querykit.NewQuery[item](dialect.SQLite).
		Where(expr.EQ(expr.C("Name"), "saw")).
		BuildUpdate(item{Name: "saw", Price: 30.0})
	require.NoError(t, err)
	require.NoError(t, drv.Exec(ctx, stmt.SQL, stmt.Args(), nil))

	stmt, err = querykit.NewQuery[item](dialect.SQLite).
		Where(expr.GTE(expr.C("Price"), 30.0)).
		BuildSelect()
	require.NoError(t, err)
	var rows qsql.Rows
	require.NoError(t, drv.Query(ctx, stmt.SQL, stmt.Args(), &rows))
	items, err := querykit.Scan[item](rows)
	require.NoError(t, err)
	require.NoError(t, rows.Close())
	require.Len(t, items, 1)
	assert.Equal(t, 30.0, items[0].Price)

	stmt, err = querykit.NewQuery[item](dialect.SQLite).
		Where(expr.EQ(expr.C("Name"), "saw")).
		BuildDelete()
	require.NoError(t, err)
	require.NoError(t, drv.Exec(ctx, stmt.SQL, stmt.Args(), nil))

	stmt, err = querykit.NewQuery[item](dialect.SQLite).BuildSelect()
	require.NoError(t, err)
	require.NoError(t, drv.Query(ctx, stmt.SQL, stmt.Args(), &rows))
	items, err = querykit.Scan[item](rows)
	require.NoError(t, err)
	require.NoError(t, rows.Close())
	assert.Empty(t, items)
}

func TestSQLiteTx(t *testing.T) {
	drv := openSQLite(t)
	ctx := context.Background()

	tx, err := drv.Tx(ctx)
	require.NoError(t, err)
	stmt, err := querykit.NewQuery[item](dialect.SQLite).BuildInsert(item{Name: "wrench", Price: 8.0})
	require.NoError(t, err)
	require.NoError(t, tx.Exec(ctx, stmt.SQL, stmt.Args(), nil))
	require.NoError(t, tx.Rollback())

	sel, err := querykit.NewQuery[item](dialect.SQLite).BuildSelect()
	require.NoError(t, err)
	var rows qsql.Rows
	require.NoError(t, drv.Query(ctx, sel.SQL, sel.Args(), &rows))
	items, err := querykit.Scan[item](rows)
	require.NoError(t, err)
	require.NoError(t, rows.Close())
	assert.Empty(t, items, "rolled back insert should not be visible")
}

func TestSQLiteUniqueConstraintClassified(t *testing.T) {
	drv := openSQLite(t)

	insertItem(t, drv, item{Name: "saw", Price: 25.5})

	stmt, err := querykit.NewQuery[item](dialect.SQLite).BuildInsert(item{Name: "saw", Price: 1.0})
	require.NoError(t, err)
	err = drv.Exec(context.Background(), stmt.SQL, stmt.Args(), nil)
	require.Error(t, err)
	assert.True(t, qsql.IsUniqueConstraintError(err))
	assert.True(t, qsql.IsConstraintError(err))
	assert.False(t, qsql.IsCheckConstraintError(err))
}

// Wildcard metacharacters in match input stay literal against a real engine.
func TestSQLiteWildcardEscaping(t *testing.T) {
	drv := openSQLite(t)
	ctx := context.Background()

	insertItem(t, drv, item{Name: "50%_off sale", Price: 1.0})
	insertItem(t, drv, item{Name: "500 offers", Price: 2.0})

	stmt, err := querykit.NewQuery[item](dialect.SQLite).
		Where(expr.Contains(expr.C("Name"), "50%_off")).
		BuildSelect()
	require.NoError(t, err)

	var rows qsql.Rows
	require.NoError(t, drv.Query(ctx, stmt.SQL, stmt.Args(), &rows))
	items, err := querykit.Scan[item](rows)
	require.NoError(t, err)
	require.NoError(t, rows.Close())
	require.Len(t, items, 1)
	assert.Equal(t, "50%_off sale", items[0].Name)
}

// A literal escape character ahead of a wildcard must not re-arm it: the
// pattern has to match the tilde and percent literally, not as an escaped
// tilde followed by a live wildcard.
func TestSQLiteEscapeCharStaysLiteral(t *testing.T) {
	drv := openSQLite(t)
	ctx := context.Background()

	insertItem(t, drv, item{Name: "xa~ZZZbx", Price: 1.0})
	insertItem(t, drv, item{Name: "xa~%bx", Price: 2.0})

	stmt, err := querykit.NewQuery[item](dialect.SQLite).
		Where(expr.Contains(expr.C("Name"), "a~%b")).
		BuildSelect()
	require.NoError(t, err)

	var rows qsql.Rows
	require.NoError(t, drv.Query(ctx, stmt.SQL, stmt.Args(), &rows))
	items, err := querykit.Scan[item](rows)
	require.NoError(t, err)
	require.NoError(t, rows.Close())
	require.Len(t, items, 1)
	assert.Equal(t, "xa~%bx", items[0].Name)
}
