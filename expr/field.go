package expr

// StringField is a generic string field that provides type-safe predicate
// methods for a member of the main entity.
//
// Usage:
//
//	var Name = expr.StringField("Name")
//	q.Where(Name.Contains("@gmail"))
type StringField string

// Name returns the field name.
func (f StringField) Name() string { return string(f) }

// EQ returns a predicate that checks if the field equals the given value.
func (f StringField) EQ(v string) P { return EQ(C(string(f)), v) }

// NEQ returns a predicate that checks if the field does not equal the given value.
func (f StringField) NEQ(v string) P { return NEQ(C(string(f)), v) }

// GT returns a predicate that checks if the field is greater than the given value.
func (f StringField) GT(v string) P { return GT(C(string(f)), v) }

// GTE returns a predicate that checks if the field is greater than or equal to the given value.
func (f StringField) GTE(v string) P { return GTE(C(string(f)), v) }

// LT returns a predicate that checks if the field is less than the given value.
func (f StringField) LT(v string) P { return LT(C(string(f)), v) }

// LTE returns a predicate that checks if the field is less than or equal to the given value.
func (f StringField) LTE(v string) P { return LTE(C(string(f)), v) }

// In returns a predicate that checks if the field value is in the given list.
func (f StringField) In(vs ...string) P { return In(C(string(f)), anySlice(vs)...) }

// NotIn returns a predicate that checks if the field value is not in the given list.
func (f StringField) NotIn(vs ...string) P { return NotIn(C(string(f)), anySlice(vs)...) }

// Contains returns a predicate that checks if the field contains the given substring.
func (f StringField) Contains(v string) P { return Contains(C(string(f)), v) }

// HasPrefix returns a predicate that checks if the field has the given prefix.
func (f StringField) HasPrefix(v string) P { return HasPrefix(C(string(f)), v) }

// HasSuffix returns a predicate that checks if the field has the given suffix.
func (f StringField) HasSuffix(v string) P { return HasSuffix(C(string(f)), v) }

// IntField is a generic integer field that provides type-safe predicate methods.
type IntField string

// Name returns the field name.
func (f IntField) Name() string { return string(f) }

// EQ returns a predicate that checks if the field equals the given value.
func (f IntField) EQ(v int) P { return EQ(C(string(f)), v) }

// NEQ returns a predicate that checks if the field does not equal the given value.
func (f IntField) NEQ(v int) P { return NEQ(C(string(f)), v) }

// GT returns a predicate that checks if the field is greater than the given value.
func (f IntField) GT(v int) P { return GT(C(string(f)), v) }

// GTE returns a predicate that checks if the field is greater than or equal to the given value.
func (f IntField) GTE(v int) P { return GTE(C(string(f)), v) }

// LT returns a predicate that checks if the field is less than the given value.
func (f IntField) LT(v int) P { return LT(C(string(f)), v) }

// LTE returns a predicate that checks if the field is less than or equal to the given value.
func (f IntField) LTE(v int) P { return LTE(C(string(f)), v) }

// In returns a predicate that checks if the field value is in the given list.
func (f IntField) In(vs ...int) P { return In(C(string(f)), anySlice(vs)...) }

// NotIn returns a predicate that checks if the field value is not in the given list.
func (f IntField) NotIn(vs ...int) P { return NotIn(C(string(f)), anySlice(vs)...) }

// Int64Field is a generic int64 field that provides type-safe predicate methods.
type Int64Field string

// Name returns the field name.
func (f Int64Field) Name() string { return string(f) }

// EQ returns a predicate that checks if the field equals the given value.
func (f Int64Field) EQ(v int64) P { return EQ(C(string(f)), v) }

// NEQ returns a predicate that checks if the field does not equal the given value.
func (f Int64Field) NEQ(v int64) P { return NEQ(C(string(f)), v) }

// GT returns a predicate that checks if the field is greater than the given value.
func (f Int64Field) GT(v int64) P { return GT(C(string(f)), v) }

// GTE returns a predicate that checks if the field is greater than or equal to the given value.
func (f Int64Field) GTE(v int64) P { return GTE(C(string(f)), v) }

// LT returns a predicate that checks if the field is less than the given value.
func (f Int64Field) LT(v int64) P { return LT(C(string(f)), v) }

// LTE returns a predicate that checks if the field is less than or equal to the given value.
func (f Int64Field) LTE(v int64) P { return LTE(C(string(f)), v) }

// In returns a predicate that checks if the field value is in the given list.
func (f Int64Field) In(vs ...int64) P { return In(C(string(f)), anySlice(vs)...) }

// NotIn returns a predicate that checks if the field value is not in the given list.
func (f Int64Field) NotIn(vs ...int64) P { return NotIn(C(string(f)), anySlice(vs)...) }

// Float64Field is a generic float64 field that provides type-safe predicate methods.
type Float64Field string

// Name returns the field name.
func (f Float64Field) Name() string { return string(f) }

// EQ returns a predicate that checks if the field equals the given value.
func (f Float64Field) EQ(v float64) P { return EQ(C(string(f)), v) }

// NEQ returns a predicate that checks if the field does not equal the given value.
func (f Float64Field) NEQ(v float64) P { return NEQ(C(string(f)), v) }

// GT returns a predicate that checks if the field is greater than the given value.
func (f Float64Field) GT(v float64) P { return GT(C(string(f)), v) }

// GTE returns a predicate that checks if the field is greater than or equal to the given value.
func (f Float64Field) GTE(v float64) P { return GTE(C(string(f)), v) }

// LT returns a predicate that checks if the field is less than the given value.
func (f Float64Field) LT(v float64) P { return LT(C(string(f)), v) }

// LTE returns a predicate that checks if the field is less than or equal to the given value.
func (f Float64Field) LTE(v float64) P { return LTE(C(string(f)), v) }

// In returns a predicate that checks if the field value is in the given list.
func (f Float64Field) In(vs ...float64) P { return In(C(string(f)), anySlice(vs)...) }

// NotIn returns a predicate that checks if the field value is not in the given list.
func (f Float64Field) NotIn(vs ...float64) P { return NotIn(C(string(f)), anySlice(vs)...) }

// BoolField is a generic boolean field that provides type-safe predicate methods.
type BoolField string

// Name returns the field name.
func (f BoolField) Name() string { return string(f) }

// EQ returns a predicate that checks if the field equals the given value.
func (f BoolField) EQ(v bool) P { return EQ(C(string(f)), v) }

// NEQ returns a predicate that checks if the field does not equal the given value.
func (f BoolField) NEQ(v bool) P { return NEQ(C(string(f)), v) }

// TimeField is a generic time field that provides type-safe predicate methods.
// V is the actual time type (e.g., time.Time).
type TimeField[V any] string

// Name returns the field name.
func (f TimeField[V]) Name() string { return string(f) }

// EQ returns a predicate that checks if the field equals the given value.
func (f TimeField[V]) EQ(v V) P { return EQ(C(string(f)), v) }

// NEQ returns a predicate that checks if the field does not equal the given value.
func (f TimeField[V]) NEQ(v V) P { return NEQ(C(string(f)), v) }

// GT returns a predicate that checks if the field is after the given value.
func (f TimeField[V]) GT(v V) P { return GT(C(string(f)), v) }

// GTE returns a predicate that checks if the field is at or after the given value.
func (f TimeField[V]) GTE(v V) P { return GTE(C(string(f)), v) }

// LT returns a predicate that checks if the field is before the given value.
func (f TimeField[V]) LT(v V) P { return LT(C(string(f)), v) }

// LTE returns a predicate that checks if the field is at or before the given value.
func (f TimeField[V]) LTE(v V) P { return LTE(C(string(f)), v) }

// In returns a predicate that checks if the field value is in the given list.
func (f TimeField[V]) In(vs ...V) P { return In(C(string(f)), anySlice(vs)...) }

// NotIn returns a predicate that checks if the field value is not in the given list.
func (f TimeField[V]) NotIn(vs ...V) P { return NotIn(C(string(f)), anySlice(vs)...) }

// UUIDField is a generic UUID field that provides type-safe predicate methods.
// V is the UUID type.
type UUIDField[V any] string

// Name returns the field name.
func (f UUIDField[V]) Name() string { return string(f) }

// EQ returns a predicate that checks if the field equals the given value.
func (f UUIDField[V]) EQ(v V) P { return EQ(C(string(f)), v) }

// NEQ returns a predicate that checks if the field does not equal the given value.
func (f UUIDField[V]) NEQ(v V) P { return NEQ(C(string(f)), v) }

// In returns a predicate that checks if the field value is in the given list.
func (f UUIDField[V]) In(vs ...V) P { return In(C(string(f)), anySlice(vs)...) }

// NotIn returns a predicate that checks if the field value is not in the given list.
func (f UUIDField[V]) NotIn(vs ...V) P { return NotIn(C(string(f)), anySlice(vs)...) }

func anySlice[V any](vs []V) []any {
	out := make([]any, len(vs))
	for i := range vs {
		out[i] = vs[i]
	}
	return out
}
