package schema

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"

	"github.com/aretw0/spiritual/pkg/wire"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Typed values produced by Load and accepted by construction:
//
//	Primitive(bool)   bool
//	Primitive(int)    int64
//	Primitive(float)  float64
//	Primitive(string) string
//	Primitive(null)   nil
//	Ref               *Instance
//	Seq               []any
//	Tuple             TupleValue
//	Map               *Mapping
//	SetOf             Set
//	Any               wire value

// TupleValue is a loaded fixed-arity list.
type TupleValue []any

// Set is a loaded set of primitives.
type Set map[any]struct{}

// NewSet builds a set from its members.
func NewSet(members ...any) Set {
	s := make(Set, len(members))
	for _, m := range members {
		s[canonicalKey(m)] = struct{}{}
	}
	return s
}

// Has reports whether v is a member.
func (s Set) Has(v any) bool {
	_, ok := s[canonicalKey(v)]
	return ok
}

// Sorted returns the members ordered by their text form.
func (s Set) Sorted() []any {
	out := make([]any, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return formatKey(out[i]) < formatKey(out[j]) })
	return out
}

// Mapping is a loaded mapping. Keys are typed primitives; iteration follows
// insertion order.
type Mapping = orderedmap.OrderedMap[any, any]

// NewMapping returns an empty typed mapping.
func NewMapping() *Mapping {
	return orderedmap.New[any, any]()
}

// MappingOf builds a typed mapping from alternating key/value arguments.
func MappingOf(kv ...any) *Mapping {
	if len(kv)%2 != 0 {
		panic("schema: MappingOf requires key/value pairs")
	}
	m := NewMapping()
	for i := 0; i < len(kv); i += 2 {
		m.Set(canonicalKey(kv[i]), kv[i+1])
	}
	return m
}

// canonicalKey widens integer and float kinds so map and set lookups agree
// with loaded keys.
func canonicalKey(v any) any {
	if i, ok := asInt(v); ok {
		return i
	}
	if f, ok := v.(float32); ok {
		return float64(f)
	}
	return v
}

func asInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), uint64(x) <= math.MaxInt64
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), x <= math.MaxInt64
	case interface{ Int64() (int64, error) }:
		i, err := x.Int64()
		return i, err == nil
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case interface{ Float64() (float64, error) }:
		f, err := x.Float64()
		return f, err == nil
	}
	if i, ok := asInt(v); ok {
		return float64(i), true
	}
	return 0, false
}

// asList accepts []any, TupleValue and any other Go slice or array.
func asList(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case TupleValue:
		return x, true
	case nil, string:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

type entry struct {
	key   string
	value any
}

// asEntries accepts *wire.Map (in order) and string-keyed Go maps (sorted).
func asEntries(v any) ([]entry, bool) {
	switch x := v.(type) {
	case *wire.Map:
		if x == nil {
			return nil, false
		}
		out := make([]entry, 0, x.Len())
		for p := x.Oldest(); p != nil; p = p.Next() {
			out = append(out, entry{p.Key, p.Value})
		}
		return out, true
	case map[string]any:
		out := make([]entry, 0, len(x))
		for k, val := range x {
			out = append(out, entry{k, val})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
		return out, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out = append(out, entry{iter.Key().String(), iter.Value().Interface()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out, true
}

// parseKey reads a wire mapping key as the key descriptor's primitive.
func parseKey(key string, t Type) (any, bool) {
	p, ok := t.(*Primitive)
	if !ok {
		return nil, false
	}
	switch p.Kind {
	case KindString:
		return key, true
	case KindInt:
		i, err := strconv.ParseInt(key, 10, 64)
		return i, err == nil
	case KindFloat:
		f, err := strconv.ParseFloat(key, 64)
		return f, err == nil
	case KindBool:
		switch key {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return nil, false
}

// formatKey is the text form of a primitive mapping key or set member.
func formatKey(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	}
	if i, ok := asInt(v); ok {
		return strconv.FormatInt(i, 10)
	}
	return fmt.Sprint(v)
}

func describe(v any) string {
	switch x := v.(type) {
	case *Instance:
		if x == nil {
			return "nil record"
		}
		return "record " + x.record.name
	case TupleValue:
		return "tuple"
	case Set:
		return "set"
	case *Mapping:
		return "mapping"
	}
	return wire.KindOf(v)
}

func joinPath(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}

func indexPath(base string, i int) string {
	return fmt.Sprintf("%s[%d]", base, i)
}

func keyPath(base, key string) string {
	return fmt.Sprintf("%s[%q]", base, key)
}
