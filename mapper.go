package querykit

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/syssam/querykit/schema"
)

// ColumnScanner is the row-set surface the mapper consumes. *sql.Rows
// implements it, as does the Rows wrapper in dialect/sql.
type ColumnScanner interface {
	Columns() ([]string, error)
	Next() bool
	Scan(...any) error
	Err() error
}

// Scan materializes every row into a value of T. A scanner registered with
// RegisterScanner is used when present; otherwise fields are matched to
// result columns by resolved column name, case-insensitively, through the
// type's descriptor.
//
// The reflective path is tolerant by construction: a mapped member absent
// from the result set keeps its zero value, and a NULL column yields the
// zero value (nil for pointer members). Neither case is an error.
func Scan[T any](rows ColumnScanner) ([]T, error) {
	if fn, ok := lookupScanner[T](); ok {
		var out []T
		for rows.Next() {
			v, err := fn(rows)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, rows.Err()
	}
	plan, err := planOf[T](rows)
	if err != nil {
		return nil, err
	}
	var out []T
	for rows.Next() {
		v, err := plan.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ScanRow materializes exactly one row into T. It returns sql.ErrNoRows
// when the result set is empty.
func ScanRow[T any](rows ColumnScanner) (T, error) {
	var zero T
	if fn, ok := lookupScanner[T](); ok {
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return zero, err
			}
			return zero, sql.ErrNoRows
		}
		return fn(rows)
	}
	plan, err := planOf[T](rows)
	if err != nil {
		return zero, err
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return zero, err
		}
		return zero, sql.ErrNoRows
	}
	return plan.scan(rows)
}

// ScanMaps materializes every row into a column-name-keyed record. Column
// names are taken from the result set verbatim.
func ScanMaps(rows ColumnScanner) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []map[string]any
	for rows.Next() {
		rec, err := scanMap(rows, cols)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ScanMapRow materializes exactly one row into a column-name-keyed record.
// It returns sql.ErrNoRows when the result set is empty.
func ScanMapRow(rows ColumnScanner) (map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, sql.ErrNoRows
	}
	return scanMap(rows, cols)
}

func scanMap(rows ColumnScanner, cols []string) (map[string]any, error) {
	dest := make([]any, len(cols))
	for i := range dest {
		dest[i] = new(any)
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}
	rec := make(map[string]any, len(cols))
	for i, col := range cols {
		v := *dest[i].(*any)
		// Drivers commonly hand strings back as byte slices.
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		rec[col] = v
	}
	return rec, nil
}

// scanPlan maps result-set ordinals to struct fields for one (type, column
// list) pairing. fields[i] is the field index path for column i, or nil
// when the column has no mapped member.
type scanPlan[T any] struct {
	fields [][]int
}

func planOf[T any](rows ColumnScanner) (*scanPlan[T], error) {
	d, err := schema.DescribeOf[T](false)
	if err != nil {
		var zero T
		return nil, NewUnknownMappingError(reflect.TypeOf(zero).String(), err)
	}
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	byName := make(map[string][]int, len(d.Columns()))
	for _, sc := range d.Columns() {
		byName[strings.ToLower(sc.DBName)] = sc.Index
	}
	plan := &scanPlan[T]{fields: make([][]int, len(cols))}
	for i, col := range cols {
		plan.fields[i] = byName[strings.ToLower(col)]
	}
	return plan, nil
}

func (p *scanPlan[T]) scan(rows ColumnScanner) (T, error) {
	var v T
	dest := make([]any, len(p.fields))
	for i := range dest {
		dest[i] = new(any)
	}
	if err := rows.Scan(dest...); err != nil {
		return v, err
	}
	rv := reflect.ValueOf(&v).Elem()
	for i, idx := range p.fields {
		if idx == nil {
			continue
		}
		raw := *dest[i].(*any)
		if err := assign(rv.FieldByIndex(idx), raw); err != nil {
			return v, err
		}
	}
	return v, nil
}

var uuidType = reflect.TypeOf(uuid.UUID{})

// assign writes a driver value into a struct field, converting across the
// narrow set of representations drivers actually produce. NULL leaves the
// field at its zero value.
func assign(fv reflect.Value, raw any) error {
	if raw == nil {
		return nil
	}
	if fv.Kind() == reflect.Pointer {
		p := reflect.New(fv.Type().Elem())
		if err := assign(p.Elem(), raw); err != nil {
			return err
		}
		fv.Set(p)
		return nil
	}
	if fv.CanAddr() {
		if sc, ok := fv.Addr().Interface().(sql.Scanner); ok {
			return sc.Scan(raw)
		}
	}
	rv := reflect.ValueOf(raw)
	if rv.Type().AssignableTo(fv.Type()) {
		fv.Set(rv)
		return nil
	}
	switch x := raw.(type) {
	case int64:
		switch fv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			fv.SetInt(x)
			return nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			fv.SetUint(uint64(x))
			return nil
		case reflect.Float32, reflect.Float64:
			fv.SetFloat(float64(x))
			return nil
		case reflect.Bool:
			fv.SetBool(x != 0)
			return nil
		}
	case float64:
		switch fv.Kind() {
		case reflect.Float32, reflect.Float64:
			fv.SetFloat(x)
			return nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			fv.SetInt(int64(x))
			return nil
		}
	case []byte:
		switch {
		case fv.Kind() == reflect.String:
			fv.SetString(string(x))
			return nil
		case fv.Type() == uuidType:
			u, err := uuid.ParseBytes(x)
			if err != nil {
				return fmt.Errorf("querykit: scan uuid: %w", err)
			}
			fv.Set(reflect.ValueOf(u))
			return nil
		case fv.Type() == reflect.TypeOf([]byte(nil)):
			b := make([]byte, len(x))
			copy(b, x)
			fv.SetBytes(b)
			return nil
		}
	case string:
		switch {
		case fv.Kind() == reflect.String:
			fv.SetString(x)
			return nil
		case fv.Type() == uuidType:
			u, err := uuid.Parse(x)
			if err != nil {
				return fmt.Errorf("querykit: scan uuid: %w", err)
			}
			fv.Set(reflect.ValueOf(u))
			return nil
		}
	case bool:
		if fv.Kind() == reflect.Bool {
			fv.SetBool(x)
			return nil
		}
	case time.Time:
		if fv.Type() == reflect.TypeOf(time.Time{}) {
			fv.Set(reflect.ValueOf(x))
			return nil
		}
	}
	return fmt.Errorf("querykit: cannot scan %T into %s", raw, fv.Type())
}
