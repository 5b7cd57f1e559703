package schema

import (
	"fmt"
	"strings"
)

// Instance holds one value per field of its record. Values satisfy their
// descriptors at every boundary the engine controls: construction, Load and Set.
type Instance struct {
	record *Record
	values []any
}

// Record returns the instance's record type.
func (i *Instance) Record() *Record { return i.record }

// Get returns the value of a field and whether the field exists.
func (i *Instance) Get(name string) (any, bool) {
	idx, ok := i.record.index[name]
	if !ok {
		return nil, false
	}
	return i.values[idx], true
}

// Value returns the value of a field, or nil for an unknown name.
func (i *Instance) Value(name string) any {
	v, _ := i.Get(name)
	return v
}

// Set assigns a field, type-checking the value like construction does.
func (i *Instance) Set(name string, v any) error {
	idx, ok := i.record.index[name]
	if !ok {
		return &UnknownFieldError{Record: i.record.name, Field: name}
	}
	cv, err := coerce(v, i.record.fields[idx].Type, joinPath(i.record.name, name))
	if err != nil {
		return err
	}
	i.values[idx] = cv
	return nil
}

// Text returns a string field ("" when absent or not a string).
func (i *Instance) Text(name string) string {
	s, _ := i.Value(name).(string)
	return s
}

// Int returns an integer field.
func (i *Instance) Int(name string) int64 {
	n, _ := asInt(i.Value(name))
	return n
}

// Float returns a numeric field.
func (i *Instance) Float(name string) float64 {
	f, _ := asFloat(i.Value(name))
	return f
}

// Bool returns a boolean field.
func (i *Instance) Bool(name string) bool {
	b, _ := i.Value(name).(bool)
	return b
}

// List returns a list or tuple field.
func (i *Instance) List(name string) []any {
	l, _ := asList(i.Value(name))
	return l
}

// Mapping returns a mapping field.
func (i *Instance) Mapping(name string) *Mapping {
	m, _ := i.Value(name).(*Mapping)
	return m
}

// Ref returns a nested record field.
func (i *Instance) Ref(name string) *Instance {
	r, _ := i.Value(name).(*Instance)
	return r
}

// Clone returns a deep copy.
func (i *Instance) Clone() *Instance {
	values := make([]any, len(i.values))
	for idx, v := range i.values {
		values[idx] = Clone(v)
	}
	return &Instance{record: i.record, values: values}
}

// Equal reports field-by-field equality with another instance of the same record.
func (i *Instance) Equal(o *Instance) bool {
	return Equal(i, o)
}

func (i *Instance) String() string {
	var b strings.Builder
	b.WriteString(i.record.name)
	b.WriteByte('{')
	for idx, f := range i.record.fields {
		if idx > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", f.Name, i.values[idx])
	}
	b.WriteByte('}')
	return b.String()
}
