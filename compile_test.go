package querykit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/querykit/dialect"
	"github.com/syssam/querykit/expr"
)

func TestEscapeLike(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		dialect string
		in      string
		want    string
	}{
		{"Plain", dialect.Postgres, "hammer", "hammer"},
		{"Percent", dialect.Postgres, "50% off", "50~% off"},
		{"Underscore", dialect.Postgres, "a_b", "a~_b"},
		{"Both", dialect.MySQL, "50%_off", "50~%~_off"},
		{"EscapeCharItself", dialect.Postgres, "a~b", "a~~b"},
		{"EscapeCharBeforeWildcard", dialect.Postgres, "a~%b", "a~~~%b"},
		{"EscapeCharBeforeUnderscore", dialect.Postgres, "a~_b", "a~~~_b"},
		{"BracketPostgres", dialect.Postgres, "a[b", "a[b"},
		{"BracketSQLServer", dialect.SQLServer, "a[b", "a~[b"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, escapeLike(tt.in, tt.dialect))
		})
	}
}

func TestMatchPattern(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		kind expr.MatchKind
		in   string
		want string
	}{
		{"Contains", expr.MatchContains, "saw", "%saw%"},
		{"Prefix", expr.MatchPrefix, "saw", "saw%"},
		{"Suffix", expr.MatchSuffix, "saw", "%saw"},
		{"ContainsEscaped", expr.MatchContains, "50%", "%50~%%"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := matchPattern(tt.kind, tt.in, dialect.Postgres)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Match predicates bind the pattern as a parameter and carry the ESCAPE
// clause; the caller's text never reaches the SQL string.
func TestMatchCompilation(t *testing.T) {
	t.Parallel()
	stmt, err := NewQuery[Product](dialect.MySQL).
		Where(expr.Contains(expr.C("Name"), "50%_off")).
		BuildSelect()
	require.NoError(t, err)
	assert.Contains(t, stmt.SQL, "WHERE (product_name LIKE @p0 ESCAPE '~')")
	assert.Equal(t, []any{"%50~%~_off%"}, stmt.Args())
}

func TestMatchUsesILIKEOnPostgres(t *testing.T) {
	t.Parallel()
	stmt, err := NewQuery[Product](dialect.Postgres).
		Where(expr.HasPrefix(expr.C("Name"), "ham")).
		BuildSelect()
	require.NoError(t, err)
	assert.Contains(t, stmt.SQL, "WHERE (product_name ILIKE @p0 ESCAPE '~')")
	assert.Equal(t, []any{"ham%"}, stmt.Args())
}

func TestMatchKinds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		p    expr.P
		arg  string
	}{
		{"Contains", expr.Contains(expr.C("Name"), "saw"), "%saw%"},
		{"HasPrefix", expr.HasPrefix(expr.C("Name"), "saw"), "saw%"},
		{"HasSuffix", expr.HasSuffix(expr.C("Name"), "saw"), "%saw"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stmt, err := NewQuery[Product](dialect.MySQL).Where(tt.p).BuildSelect()
			require.NoError(t, err)
			assert.Equal(t, []any{tt.arg}, stmt.Args())
		})
	}
}

func TestMembership(t *testing.T) {
	t.Parallel()
	stmt, err := NewQuery[Product](dialect.Postgres).
		Where(expr.In(expr.C("CategoryId"), 1, 2, 3)).
		BuildSelect()
	require.NoError(t, err)
	assert.Contains(t, stmt.SQL, "WHERE category_id IN (@p0, @p1, @p2)")
	assert.Equal(t, []any{1, 2, 3}, stmt.Args())
}

// IN over an empty sequence can never match; it compiles to a constant
// false fragment with no parameters rather than invalid SQL.
func TestEmptyMembership(t *testing.T) {
	t.Parallel()
	stmt, err := NewQuery[Product](dialect.Postgres).
		Where(expr.In(expr.C("CategoryId"))).
		BuildSelect()
	require.NoError(t, err)
	assert.Contains(t, stmt.SQL, "WHERE 1=0")
	assert.Empty(t, stmt.Params)
}

func TestNotIn(t *testing.T) {
	t.Parallel()
	stmt, err := NewQuery[Product](dialect.Postgres).
		Where(expr.NotIn(expr.C("CategoryId"), 4, 5)).
		BuildSelect()
	require.NoError(t, err)
	assert.Contains(t, stmt.SQL, "WHERE NOT (category_id IN (@p0, @p1))")
}

func TestComparisonOperators(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		p    expr.P
		want string
	}{
		{"EQ", expr.EQ(expr.C("Price"), 1.0), "(price = @p0)"},
		{"NEQ", expr.NEQ(expr.C("Price"), 1.0), "(price <> @p0)"},
		{"GT", expr.GT(expr.C("Price"), 1.0), "(price > @p0)"},
		{"GTE", expr.GTE(expr.C("Price"), 1.0), "(price >= @p0)"},
		{"LT", expr.LT(expr.C("Price"), 1.0), "(price < @p0)"},
		{"LTE", expr.LTE(expr.C("Price"), 1.0), "(price <= @p0)"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stmt, err := NewQuery[Product](dialect.Postgres).Where(tt.p).BuildSelect()
			require.NoError(t, err)
			assert.Contains(t, stmt.SQL, "WHERE "+tt.want)
		})
	}
}

// Parameter numbering follows placeholder order in the emitted SQL.
func TestParameterNumbering(t *testing.T) {
	t.Parallel()
	stmt, err := NewQuery[Product](dialect.Postgres).
		Where(expr.And(
			expr.EQ(expr.C("Name"), "saw"),
			expr.In(expr.C("CategoryId"), 1, 2),
			expr.GT(expr.C("Price"), 5.0),
		)).
		BuildSelect()
	require.NoError(t, err)
	require.Len(t, stmt.Params, 4)
	for i, p := range stmt.Params {
		assert.Equal(t, []string{"@p0", "@p1", "@p2", "@p3"}[i], p.Name)
	}
	assert.Equal(t, []any{"saw", 1, 2, 5.0}, stmt.Args())
}

func TestUnknownMemberInPredicate(t *testing.T) {
	t.Parallel()
	_, err := NewQuery[Product](dialect.Postgres).
		Where(expr.EQ(expr.C("Nope"), 1)).
		BuildSelect()
	require.Error(t, err)
	assert.True(t, IsUnknownMapping(err))
}

func TestUnknownJoinEntityInPredicate(t *testing.T) {
	t.Parallel()
	_, err := NewQuery[Product](dialect.Postgres).
		Where(expr.EQ(expr.T("Supplier", "Id"), 1)).
		BuildSelect()
	require.Error(t, err)
	assert.True(t, IsUnknownMapping(err))
}

func TestNotOfNil(t *testing.T) {
	t.Parallel()
	_, err := NewQuery[Product](dialect.Postgres).
		Where(expr.Not(nil)).
		BuildSelect()
	require.Error(t, err)
	assert.True(t, IsUnsupportedExpression(err))
}
