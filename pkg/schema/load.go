package schema

import (
	"fmt"
	"io"

	"github.com/aretw0/spiritual/pkg/wire"
)

// Load converts a wire value into a typed value of t. The whole value is
// checked before anything is built, so a failure anywhere aborts the load
// and Load succeeds exactly when Matches does.
func Load(v any, t Type) (any, error) {
	if err := Check(v, t); err != nil {
		return nil, err
	}
	return convert(v, t, "")
}

// Load converts a wire mapping into an instance of the record.
func (r *Record) Load(v any) (*Instance, error) {
	if err := r.Check(v); err != nil {
		return nil, err
	}
	return r.convert(v, "")
}

// Decode reads one JSON document from rd and loads it as the record.
func (r *Record) Decode(rd io.Reader) (*Instance, error) {
	return r.DecodeFormat(rd, wire.JSON)
}

// DecodeFormat reads one document in the given format and loads it.
func (r *Record) DecodeFormat(rd io.Reader, f wire.Format) (*Instance, error) {
	v, err := wire.Decode(rd, f)
	if err != nil {
		return nil, err
	}
	return r.Load(v)
}

// convert assumes v has been checked against t.
func convert(v any, t Type, path string) (any, error) {
	switch t := t.(type) {
	case *Primitive:
		out, ok := coercePrimitive(v, t.Kind)
		if !ok {
			return nil, &TypeMismatchError{Path: path, Expected: t.Name(), Value: v}
		}
		return out, nil
	case *RefType:
		return t.Record.convert(v, path)
	case *UnionType:
		for _, alt := range t.Alternatives {
			if check(v, alt, path) == nil {
				return convert(v, alt, path)
			}
		}
		return nil, &TypeMismatchError{Path: path, Expected: t.Name(), Value: v}
	case *SeqType:
		list, _ := asList(v)
		out := make([]any, len(list))
		for i, e := range list {
			ce, err := convert(e, t.Elem, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = ce
		}
		return out, nil
	case *SetType:
		list, _ := asList(v)
		out := make(Set, len(list))
		for i, e := range list {
			ce, err := convert(e, t.Elem, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			out[ce] = struct{}{}
		}
		return out, nil
	case *TupleType:
		list, _ := asList(v)
		if len(list) != len(t.Elems) {
			return nil, &TypeMismatchError{Path: path, Expected: t.Name(), Value: v,
				Reason: fmt.Sprintf("arity %d, want %d", len(list), len(t.Elems))}
		}
		out := make(TupleValue, len(list))
		for i, e := range list {
			ce, err := convert(e, t.Elems[i], indexPath(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = ce
		}
		return out, nil
	case *MapType:
		entries, _ := asEntries(v)
		out := NewMapping()
		for _, e := range entries {
			key, ok := parseKey(e.key, t.Key)
			if !ok {
				return nil, &TypeMismatchError{Path: keyPath(path, e.key), Expected: t.Key.Name(), Value: e.key,
					Reason: "mapping key"}
			}
			if _, dup := out.Get(key); dup {
				return nil, &TypeMismatchError{Path: keyPath(path, e.key), Expected: t.Key.Name(), Value: e.key,
					Reason: "duplicate mapping key"}
			}
			cv, err := convert(e.value, t.Value, keyPath(path, e.key))
			if err != nil {
				return nil, err
			}
			out.Set(key, cv)
		}
		return out, nil
	case *AnyType:
		return wire.Normalize(v)
	}
	return nil, &MalformedDescriptorError{Reason: "unrecognized descriptor at " + path}
}

// convert loads each present field and hands them to construction by name.
func (r *Record) convert(v any, path string) (*Instance, error) {
	entries, ok := asEntries(v)
	if !ok {
		return nil, &TypeMismatchError{Path: path, Expected: r.name, Value: v, Reason: "expected mapping"}
	}
	named := make(Args, len(r.fields))
	for _, e := range entries {
		f, known := r.Field(e.key)
		if !known {
			continue
		}
		cv, err := convert(e.value, f.Type, joinPath(path, f.Name))
		if err != nil {
			return nil, err
		}
		named[f.Name] = cv
	}
	return r.Named(named)
}
