package querykit

import (
	"reflect"
	"sync"
)

// accessor holds a registered extraction plan for one entity type: the
// ordered column names and a function producing the matching values.
type accessor struct {
	columns []string
	extract func(any) []any
}

// scanner holds a registered row-materialization function for one entity
// type. The stored value is the typed func itself; Scan recovers the type.
type scanner struct {
	fn any
}

// registry is the process-wide accessor/scanner table. Registration is
// last-write-wins; reads take the read lock only.
var registry struct {
	sync.RWMutex
	accessors map[reflect.Type]accessor
	scanners  map[reflect.Type]scanner
}

// RegisterAccessor installs a compiled write path for T: BuildInsert and
// BuildUpdate call extract instead of walking T reflectively. The columns
// slice names the database columns in the order extract returns their
// values. Registering again for the same type replaces the previous entry.
//
// Registration is expected at package init or startup; it is safe for
// concurrent use with builds.
func RegisterAccessor[T any](columns []string, extract func(T) []any) {
	var zero T
	t := reflect.TypeOf(zero)
	registry.Lock()
	defer registry.Unlock()
	if registry.accessors == nil {
		registry.accessors = make(map[reflect.Type]accessor)
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	registry.accessors[t] = accessor{
		columns: cols,
		extract: func(v any) []any { return extract(v.(T)) },
	}
}

// RegisterScanner installs a compiled read path for T: Scan and ScanRow
// call fn once per row instead of assigning fields reflectively. The
// function receives a scanner positioned on a row and must not advance it.
func RegisterScanner[T any](fn func(ColumnScanner) (T, error)) {
	var zero T
	t := reflect.TypeOf(zero)
	registry.Lock()
	defer registry.Unlock()
	if registry.scanners == nil {
		registry.scanners = make(map[reflect.Type]scanner)
	}
	registry.scanners[t] = scanner{fn: fn}
}

func lookupAccessor(t reflect.Type) (accessor, bool) {
	registry.RLock()
	defer registry.RUnlock()
	acc, ok := registry.accessors[t]
	return acc, ok
}

func lookupScanner[T any]() (func(ColumnScanner) (T, error), bool) {
	var zero T
	registry.RLock()
	defer registry.RUnlock()
	s, ok := registry.scanners[reflect.TypeOf(zero)]
	if !ok {
		return nil, false
	}
	fn, ok := s.fn.(func(ColumnScanner) (T, error))
	return fn, ok
}
