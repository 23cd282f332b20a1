// Package schema derives entity descriptors for querykit: the resolved
// table name and the ordered column set of a mapped struct type.
//
// Resolution order for a table name: TableName() override, then a naming
// contract entry, then the bare type name (optionally pluralized).
// Resolution order for a column: the db struct tag, then a naming contract
// entry, then the bare field name. Pluralization never applies to columns.
//
// Descriptors are immutable after first resolution and memoized per
// (type, pluralize) pair for the lifetime of the process.
package schema

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Kind is the declared value kind of a column. It is consulted only by the
// row mapper to pick a default-value fallback; it never validates SQL.
type Kind uint8

// Column value kinds.
const (
	KindOther Kind = iota
	KindBool
	KindInt
	KindInt64
	KindUint64
	KindFloat64
	KindString
	KindBytes
	KindTime
	KindUUID
)

// Tabler is implemented by entity types that declare an explicit table name.
type Tabler interface {
	TableName() string
}

var tablerType = reflect.TypeOf((*Tabler)(nil)).Elem()

// Column describes one mapped struct field.
type Column struct {
	// Name is the Go field name.
	Name string
	// DBName is the resolved column name.
	DBName string
	// Kind is the declared value kind.
	Kind Kind
	// Nullable reports whether the field tolerates NULL (pointer or
	// sql.Null* field).
	Nullable bool
	// Identity reports whether the field is the identity/primary-key
	// member excluded from INSERT and UPDATE column lists.
	Identity bool
	// Index is the reflect field index within the struct.
	Index []int
}

// Descriptor holds the resolved mapping of one entity type. It is immutable
// after creation.
type Descriptor struct {
	// Type is the described struct type.
	Type reflect.Type
	// Name is the bare type name, used as the entity tag in join predicates.
	Name string
	// Table is the resolved table name.
	Table string

	columns  []Column
	byName   map[string]int // Go field name -> columns index
	identity int            // columns index, -1 if none
}

// Columns returns the ordered column descriptors.
func (d *Descriptor) Columns() []Column {
	return d.columns
}

// Column returns the column descriptor for the given Go field name.
func (d *Descriptor) Column(member string) (Column, bool) {
	i, ok := d.byName[member]
	if !ok {
		return Column{}, false
	}
	return d.columns[i], true
}

// Identity returns the identity column, if the type declares one.
func (d *Descriptor) Identity() (Column, bool) {
	if d.identity < 0 {
		return Column{}, false
	}
	return d.columns[d.identity], true
}

type cacheKey struct {
	t         reflect.Type
	pluralize bool
}

var (
	cache = struct {
		sync.RWMutex
		m map[cacheKey]*Descriptor
	}{m: make(map[cacheKey]*Descriptor)}

	// flight deduplicates concurrent first-time resolutions of the
	// same type, so a descriptor is computed once.
	flight singleflight.Group
)

// Describe resolves and memoizes the descriptor of the given struct type.
// When pluralize is set and the type has no explicit table name, the table
// defaults to the pluralized type name.
func Describe(t reflect.Type, pluralize bool) (*Descriptor, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: cannot describe non-struct type %s", t)
	}
	key := cacheKey{t: t, pluralize: pluralize}
	cache.RLock()
	d, ok := cache.m[key]
	cache.RUnlock()
	if ok {
		return d, nil
	}
	v, err, _ := flight.Do(flightKey(t, pluralize), func() (any, error) {
		cache.RLock()
		d, ok := cache.m[key]
		cache.RUnlock()
		if ok {
			return d, nil
		}
		d, err := describe(t, pluralize)
		if err != nil {
			return nil, err
		}
		cache.Lock()
		cache.m[key] = d
		cache.Unlock()
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Descriptor), nil
}

// DescribeOf is a generic convenience wrapper around Describe.
func DescribeOf[T any](pluralize bool) (*Descriptor, error) {
	var zero T
	return Describe(reflect.TypeOf(zero), pluralize)
}

func flightKey(t reflect.Type, pluralize bool) string {
	k := t.PkgPath() + "." + t.Name()
	if pluralize {
		k += "+s"
	}
	return k
}

func describe(t reflect.Type, pluralize bool) (*Descriptor, error) {
	d := &Descriptor{
		Type:     t,
		Name:     t.Name(),
		Table:    resolveTable(t, pluralize),
		byName:   make(map[string]int),
		identity: -1,
	}
	declared := -1 // explicit db:",id" option
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name, opts := parseTag(f.Tag.Get("db"))
		if name == "-" {
			continue
		}
		if name == "" {
			name = contractColumn(t.Name(), f.Name)
		}
		if name == "" {
			name = f.Name
		}
		if opts["id"] && declared < 0 {
			declared = len(d.columns)
		}
		d.byName[f.Name] = len(d.columns)
		d.columns = append(d.columns, Column{
			Name:     f.Name,
			DBName:   name,
			Kind:     kindOf(f.Type),
			Nullable: nullable(f.Type),
			Index:    f.Index,
		})
	}
	if len(d.columns) == 0 {
		return nil, fmt.Errorf("schema: type %s has no mappable fields", t)
	}
	// The declared identity member wins; a member named ID/Id is the
	// convention fallback.
	d.identity = declared
	if d.identity < 0 {
		for i, c := range d.columns {
			if c.Name == "ID" || c.Name == "Id" {
				d.identity = i
				break
			}
		}
	}
	if d.identity >= 0 {
		d.columns[d.identity].Identity = true
	}
	return d, nil
}

func parseTag(tag string) (name string, opts map[string]bool) {
	opts = make(map[string]bool)
	if tag == "" {
		return "", opts
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	for _, o := range parts[1:] {
		opts[o] = true
	}
	return name, opts
}

var (
	timeType        = reflect.TypeOf(time.Time{})
	uuidType        = reflect.TypeOf(uuid.UUID{})
	nullBoolType    = reflect.TypeOf(sql.NullBool{})
	nullInt64Type   = reflect.TypeOf(sql.NullInt64{})
	nullFloat64Type = reflect.TypeOf(sql.NullFloat64{})
	nullStringType  = reflect.TypeOf(sql.NullString{})
	nullTimeType    = reflect.TypeOf(sql.NullTime{})
)

func kindOf(t reflect.Type) Kind {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case timeType, nullTimeType:
		return KindTime
	case uuidType:
		return KindUUID
	case nullBoolType:
		return KindBool
	case nullInt64Type:
		return KindInt64
	case nullFloat64Type:
		return KindFloat64
	case nullStringType:
		return KindString
	}
	switch t.Kind() {
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return KindInt
	case reflect.Int64:
		return KindInt64
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint64
	case reflect.Float32, reflect.Float64:
		return KindFloat64
	case reflect.String:
		return KindString
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return KindBytes
		}
	}
	return KindOther
}

func nullable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	}
	switch t {
	case nullBoolType, nullInt64Type, nullFloat64Type, nullStringType, nullTimeType:
		return true
	}
	return false
}
