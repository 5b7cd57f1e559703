package schema

import (
	"fmt"
	"sort"

	"github.com/aretw0/spiritual/pkg/wire"
)

// Args holds named construction arguments.
type Args map[string]any

// New constructs an instance from positional arguments, bound to fields in
// declaration order.
func (r *Record) New(positional ...any) (*Instance, error) {
	return r.Construct(positional, nil)
}

// Named constructs an instance from named arguments only.
func (r *Record) Named(named Args) (*Instance, error) {
	return r.Construct(nil, named)
}

// Construct reconciles positional and named arguments against the record.
//
// Positional arguments may not outnumber required fields, and all arguments
// together may not outnumber fields. Positional arguments bind to the leading
// fields whether those are required or optional. Named arguments must name a
// field not bound positionally. Remaining fields take their default or are
// reported missing. Nothing is returned unless every field is bound.
func (r *Record) Construct(positional []any, named Args) (*Instance, error) {
	p, n := len(positional), len(named)
	if p > r.required || p+n > len(r.fields) {
		return nil, &ArityError{
			Record:     r.name,
			Positional: p,
			Named:      n,
			Required:   r.required,
			Optional:   r.Optional(),
		}
	}

	values := make([]any, len(r.fields))
	bound := make([]bool, len(r.fields))

	for i, arg := range positional {
		f := r.fields[i]
		v, err := coerce(arg, f.Type, joinPath(r.name, f.Name))
		if err != nil {
			return nil, err
		}
		values[i] = v
		bound[i] = true
	}

	// Sorted so the reported error does not depend on map iteration.
	names := make([]string, 0, n)
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		i, ok := r.index[name]
		if !ok {
			return nil, &UnknownFieldError{Record: r.name, Field: name}
		}
		if bound[i] {
			return nil, &ArityError{
				Record:     r.name,
				Positional: p,
				Named:      n,
				Required:   r.required,
				Optional:   r.Optional(),
				Reason:     fmt.Sprintf("field %q bound both positionally and by name", name),
			}
		}
		v, err := coerce(named[name], r.fields[i].Type, joinPath(r.name, name))
		if err != nil {
			return nil, err
		}
		values[i] = v
		bound[i] = true
	}

	for i := p; i < len(r.fields); i++ {
		if bound[i] {
			continue
		}
		def, ok := r.fields[i].Default.Get()
		if !ok {
			return nil, &MissingFieldError{Record: r.name, Field: r.fields[i].Name}
		}
		values[i] = Clone(def)
	}

	return &Instance{record: r, values: values}, nil
}

// MustNew is New that panics on error, for fixtures.
func (r *Record) MustNew(positional ...any) *Instance {
	inst, err := r.New(positional...)
	if err != nil {
		panic(err)
	}
	return inst
}

// coerce checks a typed value against t and returns its canonical form:
// integers widen to int64 (or float64 for Float), foreign slices become []any,
// and mappings and sets are rebuilt from their canonical members. Instances
// are kept by reference.
func coerce(v any, t Type, path string) (any, error) {
	switch t := t.(type) {
	case *Primitive:
		if out, ok := coercePrimitive(v, t.Kind); ok {
			return out, nil
		}
	case *RefType:
		if inst, ok := v.(*Instance); ok && inst != nil && inst.record == t.Record {
			return inst, nil
		}
	case *UnionType:
		for _, alt := range t.Alternatives {
			if out, err := coerce(v, alt, path); err == nil {
				return out, nil
			}
		}
	case *SeqType:
		list, ok := asList(v)
		if !ok {
			break
		}
		out := make([]any, len(list))
		for i, e := range list {
			ce, err := coerce(e, t.Elem, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = ce
		}
		return out, nil
	case *TupleType:
		list, ok := asList(v)
		if !ok {
			break
		}
		if len(list) != len(t.Elems) {
			return nil, &TypeMismatchError{Path: path, Expected: t.Name(), Value: v,
				Reason: fmt.Sprintf("arity %d, want %d", len(list), len(t.Elems))}
		}
		out := make(TupleValue, len(list))
		for i, e := range list {
			ce, err := coerce(e, t.Elems[i], indexPath(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = ce
		}
		return out, nil
	case *MapType:
		m, ok := v.(*Mapping)
		if !ok || m == nil {
			break
		}
		out := NewMapping()
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			key, err := coerce(pair.Key, t.Key, path)
			if err != nil {
				return nil, &TypeMismatchError{Path: path, Expected: t.Name(), Value: v,
					Reason: fmt.Sprintf("key %v is not %s", pair.Key, t.Key.Name())}
			}
			if _, dup := out.Get(key); dup {
				return nil, &TypeMismatchError{Path: keyPath(path, formatKey(key)), Expected: t.Key.Name(),
					Value: pair.Key, Reason: "duplicate mapping key"}
			}
			cv, err := coerce(pair.Value, t.Value, keyPath(path, formatKey(key)))
			if err != nil {
				return nil, err
			}
			out.Set(key, cv)
		}
		return out, nil
	case *SetType:
		if s, ok := v.(Set); ok {
			out := make(Set, len(s))
			for member := range s {
				cm, err := coerce(member, t.Elem, path)
				if err != nil {
					return nil, err
				}
				out[cm] = struct{}{}
			}
			return out, nil
		}
		list, ok := asList(v)
		if !ok {
			break
		}
		out := make(Set, len(list))
		for i, e := range list {
			ce, err := coerce(e, t.Elem, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			out[ce] = struct{}{}
		}
		return out, nil
	case *AnyType:
		out, err := wire.Normalize(v)
		if err != nil {
			return nil, &TypeMismatchError{Path: path, Expected: t.Name(), Value: v, Reason: err.Error()}
		}
		return out, nil
	}
	return nil, &TypeMismatchError{Path: path, Expected: t.Name(), Value: v}
}

func coercePrimitive(v any, kind PrimitiveKind) (any, bool) {
	switch kind {
	case KindBool:
		b, ok := v.(bool)
		return b, ok
	case KindInt:
		return asInt(v)
	case KindFloat:
		return asFloat(v)
	case KindString:
		s, ok := v.(string)
		return s, ok
	case KindNull:
		return nil, v == nil
	}
	return nil, false
}
