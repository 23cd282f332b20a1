// Package expr defines the predicate and projection tree consumed by the
// querykit compiler.
//
// Predicates are built from explicit node constructors rather than captured
// closures. Leaves reference entity members by Go field name; the compiler
// resolves them to column names and table qualifiers at build time:
//
//	expr.GT(expr.C("Price"), 10)
//	expr.And(
//	    expr.Contains(expr.C("Name"), "pro"),
//	    expr.In(expr.C("CategoryID"), 1, 2, 3),
//	)
//
// Members of a joined entity are tagged with the entity name:
//
//	expr.ColumnsEQ(expr.C("CategoryID"), expr.T("Category", "ID"))
package expr

// Op is a binary comparison operator.
type Op string

// Comparison operators.
const (
	OpEQ  Op = "="
	OpNEQ Op = "<>"
	OpGT  Op = ">"
	OpGTE Op = ">="
	OpLT  Op = "<"
	OpLTE Op = "<="
)

// MatchKind selects one of the string-match operators.
type MatchKind uint8

// String-match operators.
const (
	MatchContains MatchKind = iota
	MatchPrefix
	MatchSuffix
)

// Column references a member of the query's main entity (empty Entity),
// or of a joined entity (Entity holds the joined type's name). Name is the
// Go field name, not the database column; resolution happens at compile
// time through the entity descriptor.
type Column struct {
	Entity string
	Name   string
}

// C references a member of the main entity.
func C(name string) Column {
	return Column{Name: name}
}

// T references a member of the joined entity with the given type name.
func T(entity, name string) Column {
	return Column{Entity: entity, Name: name}
}

// P is a node of a predicate tree. The interface is sealed: the compiler
// supports exactly the node types declared in this package and rejects
// anything else with a typed error.
type P interface {
	predicate()
}

// Comparison compares a member against a captured literal value.
type Comparison struct {
	Op  Op
	Col Column
	V   any
}

// ColumnComparison compares two members, typically across a join.
type ColumnComparison struct {
	Op    Op
	Left  Column
	Right Column
}

// Match applies one of the string-match operators to a member.
type Match struct {
	Kind MatchKind
	Col  Column
	V    string
}

// Membership tests a member against a materialized sequence of values.
type Membership struct {
	Col    Column
	Values []any
}

// Conjunction is the logical AND of its operands.
type Conjunction struct {
	Xs []P
}

// Disjunction is the logical OR of its operands.
type Disjunction struct {
	Xs []P
}

// Negation is the logical NOT of its operand.
type Negation struct {
	X P
}

func (*Comparison) predicate()       {}
func (*ColumnComparison) predicate() {}
func (*Match) predicate()            {}
func (*Membership) predicate()       {}
func (*Conjunction) predicate()      {}
func (*Disjunction) predicate()      {}
func (*Negation) predicate()         {}

// EQ returns a col = v predicate.
func EQ(col Column, v any) P { return &Comparison{Op: OpEQ, Col: col, V: v} }

// NEQ returns a col <> v predicate.
func NEQ(col Column, v any) P { return &Comparison{Op: OpNEQ, Col: col, V: v} }

// GT returns a col > v predicate.
func GT(col Column, v any) P { return &Comparison{Op: OpGT, Col: col, V: v} }

// GTE returns a col >= v predicate.
func GTE(col Column, v any) P { return &Comparison{Op: OpGTE, Col: col, V: v} }

// LT returns a col < v predicate.
func LT(col Column, v any) P { return &Comparison{Op: OpLT, Col: col, V: v} }

// LTE returns a col <= v predicate.
func LTE(col Column, v any) P { return &Comparison{Op: OpLTE, Col: col, V: v} }

// ColumnsEQ returns a left = right predicate over two members.
func ColumnsEQ(left, right Column) P {
	return &ColumnComparison{Op: OpEQ, Left: left, Right: right}
}

// ColumnsNEQ returns a left <> right predicate over two members.
func ColumnsNEQ(left, right Column) P {
	return &ColumnComparison{Op: OpNEQ, Left: left, Right: right}
}

// Contains matches members containing the given substring. The compiler
// escapes LIKE metacharacters in v before binding.
func Contains(col Column, v string) P {
	return &Match{Kind: MatchContains, Col: col, V: v}
}

// HasPrefix matches members starting with the given prefix.
func HasPrefix(col Column, v string) P {
	return &Match{Kind: MatchPrefix, Col: col, V: v}
}

// HasSuffix matches members ending with the given suffix.
func HasSuffix(col Column, v string) P {
	return &Match{Kind: MatchSuffix, Col: col, V: v}
}

// In tests membership of a member in the given sequence. An empty sequence
// compiles to the always-false fragment 1=0 and binds no parameters.
func In(col Column, vs ...any) P {
	return &Membership{Col: col, Values: vs}
}

// NotIn is the negation of In.
func NotIn(col Column, vs ...any) P {
	return Not(In(col, vs...))
}

// And groups predicates with the AND operator.
func And(ps ...P) P {
	if len(ps) == 1 {
		return ps[0]
	}
	return &Conjunction{Xs: ps}
}

// Or groups predicates with the OR operator.
func Or(ps ...P) P {
	if len(ps) == 1 {
		return ps[0]
	}
	return &Disjunction{Xs: ps}
}

// Not negates the given predicate.
func Not(p P) P {
	return &Negation{X: p}
}
