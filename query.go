package querykit

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/syssam/querykit/dialect"
	"github.com/syssam/querykit/expr"
	"github.com/syssam/querykit/schema"
)

// Join kinds, in SQL emission form.
const (
	joinInner = "INNER"
	joinLeft  = "LEFT"
	joinRight = "RIGHT"
	joinFull  = "FULL"
)

type join struct {
	kind string
	desc *schema.Descriptor
	on   expr.P
}

type order struct {
	member string
	desc   bool
}

// Option configures a Query at construction time.
type Option func(*options)

type options struct {
	pluralize bool
}

// WithPluralizedTables derives default table names by pluralizing the type
// name (Product -> products) instead of using it verbatim.
func WithPluralizedTables() Option {
	return func(o *options) { o.pluralize = true }
}

// Query is a mutable, fluent accumulator of filter, projection, join, order
// and paging state for one entity type. Each fluent call mutates and
// returns the same instance. A Query is a per-call, single-owner value: it
// is not safe for concurrent mutation and is expected to be configured and
// consumed within one logical operation.
//
// Invalid inputs are recorded at the call that introduced them and
// surfaced by the terminal Build* methods; checks that need the full
// accumulated state (predicate presence, paging/order interaction) run at
// Build* time. Build* methods perform no I/O and do not mutate the Query:
// building twice from unchanged state yields identical statements.
type Query[T any] struct {
	dialect   string
	desc      *schema.Descriptor
	joins     []join
	joined    map[string]*schema.Descriptor
	pred      expr.P
	rawSelect []string
	projected []expr.Column
	orders    []order
	skip      *int
	take      *int
	returnID  bool
	errs      []error
}

// NewQuery returns a query builder for T targeting the given dialect.
func NewQuery[T any](dialectName string, opts ...Option) *Query[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	q := &Query[T]{
		dialect: dialectName,
		joined:  make(map[string]*schema.Descriptor),
	}
	switch dialectName {
	case dialect.Postgres, dialect.MySQL, dialect.SQLite, dialect.SQLServer:
	default:
		q.fail("NewQuery", NewUnknownMappingError(dialectName, errors.New("unsupported dialect")))
	}
	d, err := schema.DescribeOf[T](o.pluralize)
	if err != nil {
		var zero T
		q.fail("NewQuery", NewUnknownMappingError(reflect.TypeOf(zero).String(), err))
		return q
	}
	q.desc = d
	return q
}

func (q *Query[T]) fail(call string, err error) {
	q.errs = append(q.errs, fmt.Errorf("%s: %w", call, err))
}

func (q *Query[T]) err() error {
	return errors.Join(q.errs...)
}

// Where adds a predicate to the WHERE clause. Repeated calls AND-compose.
func (q *Query[T]) Where(p expr.P) *Query[T] {
	if p == nil {
		q.fail("Where", NewUnsupportedExpressionError("nil predicate"))
		return q
	}
	if q.pred == nil {
		q.pred = p
	} else {
		q.pred = expr.And(q.pred, p)
	}
	return q
}

// OrderBy starts the ORDER BY list with the given member, ascending.
// It replaces any previously configured ordering.
func (q *Query[T]) OrderBy(member string) *Query[T] {
	return q.orderBy("OrderBy", member, false, true)
}

// OrderByDescending starts the ORDER BY list with the given member,
// descending. It replaces any previously configured ordering.
func (q *Query[T]) OrderByDescending(member string) *Query[T] {
	return q.orderBy("OrderByDescending", member, true, true)
}

// ThenBy appends an ascending member to the ORDER BY list.
func (q *Query[T]) ThenBy(member string) *Query[T] {
	return q.orderBy("ThenBy", member, false, false)
}

// ThenByDescending appends a descending member to the ORDER BY list.
func (q *Query[T]) ThenByDescending(member string) *Query[T] {
	return q.orderBy("ThenByDescending", member, true, false)
}

func (q *Query[T]) orderBy(call, member string, desc, reset bool) *Query[T] {
	if q.desc != nil {
		if _, ok := q.desc.Column(member); !ok {
			q.fail(call, NewUnknownMappingError(q.desc.Name+"."+member, nil))
			return q
		}
	}
	if reset {
		q.orders = q.orders[:0]
	}
	q.orders = append(q.orders, order{member: member, desc: desc})
	return q
}

// Skip sets the number of leading rows to skip.
func (q *Query[T]) Skip(n int) *Query[T] {
	if n < 0 {
		q.fail("Skip", fmt.Errorf("negative offset %d", n))
		return q
	}
	q.skip = &n
	return q
}

// Take caps the number of rows to return.
func (q *Query[T]) Take(n int) *Query[T] {
	if n < 0 {
		q.fail("Take", fmt.Errorf("negative limit %d", n))
		return q
	}
	q.take = &n
	return q
}

// Select replaces the projection with raw column text. Each entry must pass
// the identifier allow-list; a rejected entry fails the builder at this
// call. Raw columns are emitted verbatim and never auto-qualified: in the
// presence of joins the caller owns qualification.
func (q *Query[T]) Select(columns ...string) *Query[T] {
	for _, col := range columns {
		if err := ValidateIdent(col); err != nil {
			q.fail("Select", err)
			return q
		}
	}
	q.rawSelect = columns
	q.projected = nil
	return q
}

// Project replaces the projection with typed member references, which may
// span the main entity and joined entities. Members are resolved and
// qualified at build time.
func (q *Query[T]) Project(cols ...expr.Column) *Query[T] {
	q.projected = cols
	q.rawSelect = nil
	return q
}

// Join adds an INNER JOIN on the given entity. The ON predicate references
// the joined entity's members through expr.T with the entity's type name.
// Join order determines emission order; repeated joins on the same entity
// are permitted and the caller is responsible for disambiguation.
func (q *Query[T]) Join(entity any, on expr.P) *Query[T] {
	return q.join("Join", joinInner, entity, on)
}

// LeftJoin adds a LEFT JOIN on the given entity.
func (q *Query[T]) LeftJoin(entity any, on expr.P) *Query[T] {
	return q.join("LeftJoin", joinLeft, entity, on)
}

// RightJoin adds a RIGHT JOIN on the given entity.
func (q *Query[T]) RightJoin(entity any, on expr.P) *Query[T] {
	return q.join("RightJoin", joinRight, entity, on)
}

// FullJoin adds a FULL JOIN on the given entity.
func (q *Query[T]) FullJoin(entity any, on expr.P) *Query[T] {
	return q.join("FullJoin", joinFull, entity, on)
}

func (q *Query[T]) join(call, kind string, entity any, on expr.P) *Query[T] {
	if on == nil {
		q.fail(call, NewUnsupportedExpressionError("nil join condition"))
		return q
	}
	d, err := schema.Describe(reflect.TypeOf(entity), false)
	if err != nil {
		q.fail(call, NewUnknownMappingError(fmt.Sprintf("%T", entity), err))
		return q
	}
	q.joined[d.Name] = d
	q.joins = append(q.joins, join{kind: kind, desc: d, on: on})
	return q
}

// ReturnIdentity makes BuildInsert append the dialect's syntax for
// returning the generated identity value.
func (q *Query[T]) ReturnIdentity() *Query[T] {
	q.returnID = true
	return q
}

func (q *Query[T]) compiler() *compiler {
	return &compiler{
		dialect: q.dialect,
		main:    q.desc,
		joined:  q.joined,
		qualify: len(q.joins) > 0,
	}
}

// BuildSelect compiles the accumulated state into a SELECT statement.
func (q *Query[T]) BuildSelect() (Statement, error) {
	if err := q.err(); err != nil {
		return Statement{}, err
	}
	c := q.compiler()
	var b strings.Builder
	b.WriteString("SELECT ")
	cols, err := q.selectList(c)
	if err != nil {
		return Statement{}, err
	}
	b.WriteString(strings.Join(cols, ", "))
	b.WriteString(" FROM ")
	b.WriteString(q.desc.Table)
	for _, j := range q.joins {
		fmt.Fprintf(&b, " %s JOIN %s ON ", j.kind, j.desc.Table)
		if err := c.predicate(&b, j.on); err != nil {
			return Statement{}, err
		}
	}
	if q.pred != nil {
		b.WriteString(" WHERE ")
		if err := c.predicate(&b, q.pred); err != nil {
			return Statement{}, err
		}
	}
	if len(q.orders) > 0 {
		b.WriteString(" ORDER BY ")
		for i, o := range q.orders {
			if i > 0 {
				b.WriteString(", ")
			}
			col, err := c.column(expr.C(o.member))
			if err != nil {
				return Statement{}, err
			}
			b.WriteString(col)
			if o.desc {
				b.WriteString(" DESC")
			} else {
				b.WriteString(" ASC")
			}
		}
	}
	if err := q.paging(&b); err != nil {
		return Statement{}, err
	}
	return Statement{SQL: b.String(), Params: c.params}, nil
}

// selectList resolves the projection. Default is every column of the main
// entity, qualified with the table identifier once joins are present.
func (q *Query[T]) selectList(c *compiler) ([]string, error) {
	switch {
	case len(q.rawSelect) > 0:
		return q.rawSelect, nil
	case len(q.projected) > 0:
		cols := make([]string, len(q.projected))
		for i, pc := range q.projected {
			col, err := c.column(pc)
			if err != nil {
				return nil, err
			}
			cols[i] = col
		}
		return cols, nil
	default:
		cols := make([]string, len(q.desc.Columns()))
		for i, sc := range q.desc.Columns() {
			if c.qualify {
				cols[i] = q.desc.Table + "." + sc.DBName
			} else {
				cols[i] = sc.DBName
			}
		}
		return cols, nil
	}
}

// paging appends the dialect's row-offset clause. SQLServer paging is
// undefined without a deterministic row order, so it demands ORDER BY.
func (q *Query[T]) paging(b *strings.Builder) error {
	if q.skip == nil && q.take == nil {
		return nil
	}
	switch q.dialect {
	case dialect.SQLServer:
		if len(q.orders) == 0 {
			return NewUnorderedPagingError(q.dialect)
		}
		off := 0
		if q.skip != nil {
			off = *q.skip
		}
		fmt.Fprintf(b, " OFFSET %d ROWS", off)
		if q.take != nil {
			fmt.Fprintf(b, " FETCH NEXT %d ROWS ONLY", *q.take)
		}
	case dialect.MySQL:
		switch {
		case q.take != nil:
			fmt.Fprintf(b, " LIMIT %d", *q.take)
		default:
			// MySQL requires LIMIT when OFFSET is used.
			b.WriteString(" LIMIT 18446744073709551615")
		}
		if q.skip != nil {
			fmt.Fprintf(b, " OFFSET %d", *q.skip)
		}
	case dialect.SQLite:
		switch {
		case q.take != nil:
			fmt.Fprintf(b, " LIMIT %d", *q.take)
		default:
			b.WriteString(" LIMIT -1")
		}
		if q.skip != nil {
			fmt.Fprintf(b, " OFFSET %d", *q.skip)
		}
	default: // postgres
		if q.take != nil {
			fmt.Fprintf(b, " LIMIT %d", *q.take)
		}
		if q.skip != nil {
			fmt.Fprintf(b, " OFFSET %d", *q.skip)
		}
	}
	return nil
}

// BuildInsert compiles an INSERT for the given entity value. The identity
// member is excluded from the column list; ReturnIdentity appends the
// dialect's identity-return syntax.
func (q *Query[T]) BuildInsert(v T) (Statement, error) {
	if err := q.err(); err != nil {
		return Statement{}, err
	}
	cols, values := q.writeSet(v)
	if len(cols) == 0 {
		return Statement{}, NewUnknownMappingError(q.desc.Name, errors.New("no insertable columns"))
	}
	c := &compiler{dialect: q.dialect, main: q.desc}
	phs := make([]string, len(values))
	for i, val := range values {
		phs[i] = c.placeholder(val)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES (%s)",
		q.desc.Table, strings.Join(cols, ", "), strings.Join(phs, ", "))
	if q.returnID {
		ret, err := q.identityReturn()
		if err != nil {
			return Statement{}, err
		}
		b.WriteString(ret)
	}
	return Statement{SQL: b.String(), Params: c.params}, nil
}

// BuildUpdate compiles an UPDATE for the given entity value. It refuses to
// build without a WHERE predicate.
func (q *Query[T]) BuildUpdate(v T) (Statement, error) {
	if err := q.err(); err != nil {
		return Statement{}, err
	}
	if q.pred == nil {
		return Statement{}, NewMissingPredicateError("update")
	}
	cols, values := q.writeSet(v)
	if len(cols) == 0 {
		return Statement{}, NewUnknownMappingError(q.desc.Name, errors.New("no updatable columns"))
	}
	c := &compiler{dialect: q.dialect, main: q.desc}
	var b strings.Builder
	fmt.Fprintf(&b, "UPDATE %s SET ", q.desc.Table)
	for i, col := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s = %s", col, c.placeholder(values[i]))
	}
	b.WriteString(" WHERE ")
	if err := c.predicate(&b, q.pred); err != nil {
		return Statement{}, err
	}
	return Statement{SQL: b.String(), Params: c.params}, nil
}

// BuildDelete compiles a DELETE. It refuses to build without a WHERE
// predicate.
func (q *Query[T]) BuildDelete() (Statement, error) {
	if err := q.err(); err != nil {
		return Statement{}, err
	}
	if q.pred == nil {
		return Statement{}, NewMissingPredicateError("delete")
	}
	c := &compiler{dialect: q.dialect, main: q.desc}
	var b strings.Builder
	fmt.Fprintf(&b, "DELETE FROM %s WHERE ", q.desc.Table)
	if err := c.predicate(&b, q.pred); err != nil {
		return Statement{}, err
	}
	return Statement{SQL: b.String(), Params: c.params}, nil
}

// writeSet returns the column names and values for INSERT/UPDATE, from the
// registered accessor when one exists, else reflectively through the
// descriptor. The identity member is excluded in both paths.
func (q *Query[T]) writeSet(v T) (cols []string, values []any) {
	idName := ""
	if id, ok := q.desc.Identity(); ok {
		idName = id.DBName
	}
	if acc, ok := lookupAccessor(q.desc.Type); ok {
		extracted := acc.extract(v)
		for i, col := range acc.columns {
			if col == idName || i >= len(extracted) {
				continue
			}
			cols = append(cols, col)
			values = append(values, extracted[i])
		}
		return cols, values
	}
	rv := reflect.ValueOf(v)
	for _, sc := range q.desc.Columns() {
		if sc.Identity {
			continue
		}
		cols = append(cols, sc.DBName)
		values = append(values, rv.FieldByIndex(sc.Index).Interface())
	}
	return cols, values
}

func (q *Query[T]) identityReturn() (string, error) {
	id, ok := q.desc.Identity()
	if !ok {
		return "", NewUnknownMappingError(q.desc.Name, errors.New("no identity member declared"))
	}
	switch q.dialect {
	case dialect.Postgres:
		return " RETURNING " + id.DBName, nil
	case dialect.SQLServer:
		return "; SELECT SCOPE_IDENTITY()", nil
	case dialect.MySQL:
		return "; SELECT LAST_INSERT_ID()", nil
	default: // sqlite
		return "; SELECT last_insert_rowid()", nil
	}
}
