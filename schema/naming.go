package schema

import (
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/go-openapi/inflect"
	"gopkg.in/yaml.v3"
)

// Contract is an explicit naming-contract table: declared identifier
// overrides keyed by type name and by "Type.Member". It replaces attribute
// introspection for callers that keep naming out of their entity types.
//
// A contract is configured once at startup with UseContract, before the
// first Describe call; descriptors resolved earlier are not re-resolved.
type Contract struct {
	// Tables maps a type name to its table name.
	Tables map[string]string `yaml:"tables"`
	// Columns maps "Type.Member" to a column name.
	Columns map[string]string `yaml:"columns"`
}

// ParseContract reads a YAML naming contract:
//
//	tables:
//	  Product: product_catalog
//	columns:
//	  Product.Name: product_name
func ParseContract(r io.Reader) (*Contract, error) {
	var c Contract
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("schema: parse naming contract: %w", err)
	}
	return &c, nil
}

var contract struct {
	sync.RWMutex
	c *Contract
}

// UseContract installs the process-wide naming contract consulted by
// Describe before falling back to default naming.
func UseContract(c *Contract) {
	contract.Lock()
	contract.c = c
	contract.Unlock()
}

func contractTable(typeName string) string {
	contract.RLock()
	defer contract.RUnlock()
	if contract.c == nil {
		return ""
	}
	return contract.c.Tables[typeName]
}

func contractColumn(typeName, member string) string {
	contract.RLock()
	defer contract.RUnlock()
	if contract.c == nil {
		return ""
	}
	return contract.c.Columns[typeName+"."+member]
}

// resolveTable resolves a table name: an explicit TableName() declaration,
// then the naming contract, then the bare type name, pluralized on demand.
func resolveTable(t reflect.Type, pluralize bool) string {
	if t.Implements(tablerType) {
		return reflect.New(t).Elem().Interface().(Tabler).TableName()
	}
	if reflect.PointerTo(t).Implements(tablerType) {
		return reflect.New(t).Interface().(Tabler).TableName()
	}
	if name := contractTable(t.Name()); name != "" {
		return name
	}
	if pluralize {
		return Pluralize(t.Name())
	}
	return t.Name()
}

// Pluralize applies the table-naming pluralization convention: append s,
// consonant+y becomes ies, and s/x/z/ch/sh endings take es.
func Pluralize(name string) string {
	return inflect.Pluralize(name)
}
