package querykit

import (
	"fmt"
	"strings"

	"github.com/syssam/querykit/dialect"
	"github.com/syssam/querykit/expr"
	"github.com/syssam/querykit/schema"
)

// Parameter is one positional parameter produced by the compiler. Name is
// the placeholder as it appears in the SQL text (@p0, @p1, ...); binding is
// by position, not by name lookup.
type Parameter struct {
	Name  string
	Value any
}

// Statement is a compiled SQL statement with its ordered parameter list.
type Statement struct {
	SQL    string
	Params []Parameter
}

// Args returns the parameter values in placeholder order, for handing to an
// execution driver.
func (s Statement) Args() []any {
	args := make([]any, len(s.Params))
	for i := range s.Params {
		args[i] = s.Params[i].Value
	}
	return args
}

// likeEscape is the fixed escape character used for LIKE wildcard escaping.
const likeEscape = "~"

// compiler lowers predicate trees into SQL fragments. One compiler instance
// serves one Build* call; parameters accumulate in walk order.
type compiler struct {
	dialect string
	main    *schema.Descriptor
	joined  map[string]*schema.Descriptor
	// qualify prefixes main-entity members with the table identifier.
	// Set whenever the query carries at least one join clause.
	qualify bool
	params  []Parameter
}

// placeholder appends v to the parameter list and returns its positional
// placeholder. The numbering matches the list order exactly.
func (c *compiler) placeholder(v any) string {
	name := fmt.Sprintf("@p%d", len(c.params))
	c.params = append(c.params, Parameter{Name: name, Value: v})
	return name
}

// column resolves a member reference to its emitted identifier. Members of
// joined entities are always qualified; main-entity members only when the
// query has joins, to keep single-table SQL free of noise while staying
// unambiguous once a second table is in scope.
func (c *compiler) column(col expr.Column) (string, error) {
	d := c.main
	qualify := c.qualify
	if col.Entity != "" {
		j, ok := c.joined[col.Entity]
		if !ok {
			return "", NewUnknownMappingError(col.Entity, nil)
		}
		d, qualify = j, true
	}
	sc, ok := d.Column(col.Name)
	if !ok {
		return "", NewUnknownMappingError(d.Name+"."+col.Name, nil)
	}
	if qualify {
		return d.Table + "." + sc.DBName, nil
	}
	return sc.DBName, nil
}

var validOps = map[expr.Op]bool{
	expr.OpEQ: true, expr.OpNEQ: true,
	expr.OpGT: true, expr.OpGTE: true,
	expr.OpLT: true, expr.OpLTE: true,
}

// predicate walks the tree depth-first, emitting SQL left-to-right and
// parameters in encounter order.
func (c *compiler) predicate(b *strings.Builder, p expr.P) error {
	switch p := p.(type) {
	case *expr.Comparison:
		if !validOps[p.Op] {
			return NewUnsupportedExpressionError("comparison operator %q", p.Op)
		}
		col, err := c.column(p.Col)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "(%s %s %s)", col, p.Op, c.placeholder(p.V))
	case *expr.ColumnComparison:
		if !validOps[p.Op] {
			return NewUnsupportedExpressionError("comparison operator %q", p.Op)
		}
		left, err := c.column(p.Left)
		if err != nil {
			return err
		}
		right, err := c.column(p.Right)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "(%s %s %s)", left, p.Op, right)
	case *expr.Match:
		col, err := c.column(p.Col)
		if err != nil {
			return err
		}
		pattern, err := matchPattern(p.Kind, p.V, c.dialect)
		if err != nil {
			return err
		}
		like := "LIKE"
		if c.dialect == dialect.Postgres {
			like = "ILIKE"
		}
		fmt.Fprintf(b, "(%s %s %s ESCAPE '%s')", col, like, c.placeholder(pattern), likeEscape)
	case *expr.Membership:
		col, err := c.column(p.Col)
		if err != nil {
			return err
		}
		// IN () is invalid SQL on every supported dialect; an empty
		// sequence can never match, so emit a constant-false fragment.
		if len(p.Values) == 0 {
			b.WriteString("1=0")
			return nil
		}
		phs := make([]string, len(p.Values))
		for i, v := range p.Values {
			phs[i] = c.placeholder(v)
		}
		fmt.Fprintf(b, "%s IN (%s)", col, strings.Join(phs, ", "))
	case *expr.Conjunction:
		return c.nary(b, "AND", p.Xs)
	case *expr.Disjunction:
		return c.nary(b, "OR", p.Xs)
	case *expr.Negation:
		if p.X == nil {
			return NewUnsupportedExpressionError("NOT of nil predicate")
		}
		b.WriteString("NOT (")
		if err := c.predicate(b, p.X); err != nil {
			return err
		}
		b.WriteString(")")
	case nil:
		return NewUnsupportedExpressionError("nil predicate")
	default:
		return NewUnsupportedExpressionError("predicate node %T", p)
	}
	return nil
}

func (c *compiler) nary(b *strings.Builder, op string, xs []expr.P) error {
	if len(xs) == 0 {
		return NewUnsupportedExpressionError("empty %s group", op)
	}
	b.WriteString("(")
	for i, x := range xs {
		if i > 0 {
			b.WriteString(" " + op + " ")
		}
		if err := c.predicate(b, x); err != nil {
			return err
		}
	}
	b.WriteString(")")
	return nil
}

// matchPattern escapes the dialect's LIKE metacharacters in v and wraps it
// for the given match kind. The bound value never contains an unescaped
// wildcard; the SQL carries a matching ESCAPE clause.
func matchPattern(kind expr.MatchKind, v, dialectName string) (string, error) {
	escaped := escapeLike(v, dialectName)
	switch kind {
	case expr.MatchContains:
		return "%" + escaped + "%", nil
	case expr.MatchPrefix:
		return escaped + "%", nil
	case expr.MatchSuffix:
		return "%" + escaped, nil
	default:
		return "", NewUnsupportedExpressionError("string match kind %d", kind)
	}
}

func escapeLike(v, dialectName string) string {
	// The escape character goes first: a literal ~ ahead of a wildcard
	// would otherwise swallow the inserted escape and re-arm the wildcard.
	pairs := []string{
		likeEscape, likeEscape + likeEscape,
		"%", likeEscape + "%",
		"_", likeEscape + "_",
	}
	// Bracket quoting makes [ a range metacharacter as well.
	if dialectName == dialect.SQLServer {
		pairs = append(pairs, "[", likeEscape+"[")
	}
	return strings.NewReplacer(pairs...).Replace(v)
}
