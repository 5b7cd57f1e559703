package schema

import (
	"reflect"

	"github.com/aretw0/spiritual/pkg/wire"
)

// Equal reports deep equality of typed (or wire) values. Numbers compare by
// value across integer kinds; mappings and sets compare without regard to order.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case *Instance:
		y, ok := b.(*Instance)
		if !ok || x == nil || y == nil {
			return ok && x == y
		}
		if x.record != y.record {
			return false
		}
		for idx := range x.values {
			if !Equal(x.values[idx], y.values[idx]) {
				return false
			}
		}
		return true
	case *Mapping:
		y, ok := b.(*Mapping)
		if !ok || x == nil || y == nil {
			return ok && x == y
		}
		if x.Len() != y.Len() {
			return false
		}
		for p := x.Oldest(); p != nil; p = p.Next() {
			other, present := y.Get(canonicalKey(p.Key))
			if !present || !Equal(p.Value, other) {
				return false
			}
		}
		return true
	case *wire.Map:
		y, ok := b.(*wire.Map)
		if !ok || x == nil || y == nil {
			return ok && x == y
		}
		if x.Len() != y.Len() {
			return false
		}
		for p := x.Oldest(); p != nil; p = p.Next() {
			other, present := y.Get(p.Key)
			if !present || !Equal(p.Value, other) {
				return false
			}
		}
		return true
	case Set:
		y, ok := b.(Set)
		if !ok || len(x) != len(y) {
			return false
		}
		for m := range x {
			if !y.Has(m) {
				return false
			}
		}
		return true
	case bool, string, nil:
		return a == b
	}

	if xi, ok := asInt(a); ok {
		yi, ok := asInt(b)
		return ok && xi == yi
	}
	if xf, ok := asFloat(a); ok {
		yf, ok := asFloat(b)
		return ok && xf == yf
	}
	if xl, ok := asList(a); ok {
		yl, ok := asList(b)
		if !ok || len(xl) != len(yl) {
			return false
		}
		for i := range xl {
			if !Equal(xl[i], yl[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// Clone deep-copies a typed or wire value. Defaults are cloned into every
// instance so no two instances share a mutable default.
func Clone(v any) any {
	switch x := v.(type) {
	case *Instance:
		if x == nil {
			return x
		}
		return x.Clone()
	case *Mapping:
		out := NewMapping()
		for p := x.Oldest(); p != nil; p = p.Next() {
			out.Set(p.Key, Clone(p.Value))
		}
		return out
	case *wire.Map:
		out := wire.NewMap()
		for p := x.Oldest(); p != nil; p = p.Next() {
			out.Set(p.Key, Clone(p.Value))
		}
		return out
	case Set:
		out := make(Set, len(x))
		for m := range x {
			out[m] = struct{}{}
		}
		return out
	case TupleValue:
		out := make(TupleValue, len(x))
		for i, e := range x {
			out[i] = Clone(e)
		}
		return out
	case []any:
		if x == nil {
			return x
		}
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Clone(e)
		}
		return out
	}
	return v
}
