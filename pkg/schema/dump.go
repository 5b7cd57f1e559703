package schema

import (
	"io"

	"github.com/aretw0/spiritual/pkg/wire"
)

// Dump converts a typed value into a wire value. Records become mappings in
// declared field order, tuples and sets become lists (sets sorted by text
// form), mapping keys take their text form and primitives pass through.
// Dump trusts its input and never fails.
func Dump(v any) any {
	switch x := v.(type) {
	case *Instance:
		if x == nil {
			return nil
		}
		return x.Dump()
	case *Mapping:
		out := wire.NewMap()
		for p := x.Oldest(); p != nil; p = p.Next() {
			out.Set(formatKey(p.Key), Dump(p.Value))
		}
		return out
	case *wire.Map:
		out := wire.NewMap()
		for p := x.Oldest(); p != nil; p = p.Next() {
			out.Set(p.Key, Dump(p.Value))
		}
		return out
	case Set:
		members := x.Sorted()
		for i, m := range members {
			members[i] = Dump(m)
		}
		return members
	case nil, bool, string, int64, float64:
		return x
	case float32:
		return float64(x)
	}
	if i, ok := asInt(v); ok {
		return i
	}
	if f, ok := asFloat(v); ok {
		return f
	}
	if list, ok := asList(v); ok {
		out := make([]any, len(list))
		for i, e := range list {
			out[i] = Dump(e)
		}
		return out
	}
	if entries, ok := asEntries(v); ok {
		out := wire.NewMap()
		for _, e := range entries {
			out.Set(e.key, Dump(e.value))
		}
		return out
	}
	return v
}

// Dump converts the instance into a string-keyed mapping in field order.
func (i *Instance) Dump() *wire.Map {
	out := wire.NewMap()
	for idx, f := range i.record.fields {
		out.Set(f.Name, Dump(i.values[idx]))
	}
	return out
}

// Encode writes the instance as indented JSON.
func (i *Instance) Encode(w io.Writer) error {
	return wire.EncodeJSON(w, i.Dump())
}

// EncodeFormat writes the instance in the given format.
func (i *Instance) EncodeFormat(w io.Writer, f wire.Format) error {
	return wire.Encode(w, i.Dump(), f)
}
