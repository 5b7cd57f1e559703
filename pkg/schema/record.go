package schema

import (
	"fmt"
	"sort"
	"sync"
)

// Default is a field default tagged with its presence. A present default whose
// value is nil is a real default (the null marker), not "no default".
type Default struct {
	value any
	set   bool
}

// Get returns the default value and whether one was declared.
func (d Default) Get() (any, bool) { return d.value, d.set }

// Field is one declared slot of a record.
type Field struct {
	Name    string
	Type    Type
	Default Default
}

// IsRequired reports whether the field has no default.
func (f Field) IsRequired() bool { return !f.Default.set }

// Required declares a field that must always be supplied.
func Required(name string, t Type) Field {
	return Field{Name: name, Type: t}
}

// Optional declares a field that takes def when omitted. def must conform to t.
func Optional(name string, t Type, def any) Field {
	return Field{Name: name, Type: t, Default: Default{value: def, set: true}}
}

// Record is the schema of a record type: its fields in declaration order.
// A Record is immutable once defined and safe for concurrent use.
type Record struct {
	name     string
	fields   []Field
	index    map[string]int
	required int
	strict   bool
}

// Option configures a record at definition time.
type Option func(*Record)

// RejectUnknown makes mapping keys that name no field an UnknownFieldError
// during Check and Load. By default such keys are ignored.
func RejectUnknown() Option {
	return func(r *Record) {
		r.strict = true
	}
}

// Define builds a record from its fields. It returns a MalformedDescriptorError
// when a field's descriptor or default is unusable.
func Define(name string, fields []Field, opts ...Option) (*Record, error) {
	if name == "" {
		return nil, &MalformedDescriptorError{Reason: "record name is empty"}
	}
	r := &Record{
		name:   name,
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, f := range fields {
		if f.Name == "" {
			return nil, &MalformedDescriptorError{Record: name, Reason: "field name is empty"}
		}
		if _, dup := r.index[f.Name]; dup {
			return nil, &MalformedDescriptorError{Record: name, Field: f.Name, Reason: "duplicate field"}
		}
		if reason := checkDescriptor(f.Type); reason != "" {
			return nil, &MalformedDescriptorError{Record: name, Field: f.Name, Reason: reason}
		}
		if def, ok := f.Default.Get(); ok {
			v, err := coerce(def, f.Type, joinPath(name, f.Name))
			if err != nil {
				return nil, &MalformedDescriptorError{Record: name, Field: f.Name, Reason: "default: " + err.Error()}
			}
			f.Default.value = v
		} else {
			r.required++
		}
		r.index[f.Name] = len(r.fields)
		r.fields = append(r.fields, f)
	}
	return r, nil
}

// MustDefine is Define for package-level record declarations; it panics on a
// malformed schema.
func MustDefine(name string, fields []Field, opts ...Option) *Record {
	r, err := Define(name, fields, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Name returns the record type name.
func (r *Record) Name() string { return r.name }

// Fields returns a copy of the fields in declaration order.
func (r *Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Field looks up a field by name.
func (r *Record) Field(name string) (Field, bool) {
	i, ok := r.index[name]
	if !ok {
		return Field{}, false
	}
	return r.fields[i], true
}

// Required returns the number of fields without a default.
func (r *Record) Required() int { return r.required }

// Optional returns the number of fields with a default.
func (r *Record) Optional() int { return len(r.fields) - r.required }

// Strict reports whether unknown mapping keys are rejected.
func (r *Record) Strict() bool { return r.strict }

func (r *Record) String() string { return r.name }

// Registry resolves record names, for type strings and for tools that pick a
// record by name.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewRegistry creates a registry holding the given records.
func NewRegistry(records ...*Record) (*Registry, error) {
	reg := &Registry{records: make(map[string]*Record)}
	for _, r := range records {
		if err := reg.Register(r); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Register adds a record. Names are unique.
func (reg *Registry) Register(r *Record) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, exists := reg.records[r.name]; exists {
		return fmt.Errorf("schema: record %q already registered", r.name)
	}
	reg.records[r.name] = r
	return nil
}

// Lookup returns the record with the given name.
func (reg *Registry) Lookup(name string) (*Record, bool) {
	if reg == nil {
		return nil, false
	}
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.records[name]
	return r, ok
}

// Names returns the registered record names, sorted.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	names := make([]string, 0, len(reg.records))
	for name := range reg.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
