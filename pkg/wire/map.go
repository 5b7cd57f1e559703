package wire

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Map is a string-keyed mapping that iterates in insertion order.
type Map = orderedmap.OrderedMap[string, any]

// NewMap returns an empty ordered mapping.
func NewMap() *Map {
	return orderedmap.New[string, any]()
}

// MapOf builds an ordered mapping from alternating key/value arguments.
// It panics on an odd argument count or a non-string key; it is meant for
// literals in tests and fixtures.
func MapOf(kv ...any) *Map {
	if len(kv)%2 != 0 {
		panic("wire: MapOf requires key/value pairs")
	}
	m := NewMap()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("wire: MapOf key %d is %T, want string", i/2, kv[i]))
		}
		m.Set(key, kv[i+1])
	}
	return m
}

// Keys returns the keys of m in iteration order.
func Keys(m *Map) []string {
	keys := make([]string, 0, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// KindOf names the wire kind of v for diagnostics.
func KindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "int"
	case float32, float64:
		return "float"
	case string:
		return "string"
	case []any:
		return "list"
	case *Map, map[string]any:
		return "mapping"
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map:
		return "mapping"
	}
	return fmt.Sprintf("%T", v)
}

// Normalize converts loosely typed Go values (as produced by encoding/json,
// mapstructure or hand-written literals) into the wire model. Plain maps are
// ordered by key since they carry no order of their own.
func Normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, string, int64, float64:
		return x, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint:
		return normalizeUint(uint64(x))
	case uint64:
		return normalizeUint(x)
	case float32:
		return float64(x), nil
	case interface{ Int64() (int64, error) }:
		return normalizeNumber(x)
	case *Map:
		out := NewMap()
		for p := x.Oldest(); p != nil; p = p.Next() {
			nv, err := Normalize(p.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p.Key, err)
			}
			out.Set(p.Key, nv)
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			ne, err := Normalize(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = ne
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			ne, err := Normalize(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = ne
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("wire: mapping keys must be strings, got %s", rv.Type().Key())
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		out := NewMap()
		for _, k := range keys {
			nv, err := Normalize(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface())
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out.Set(k, nv)
		}
		return out, nil
	}
	return nil, fmt.Errorf("wire: unsupported value of type %T", v)
}

func normalizeUint(u uint64) (any, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("wire: integer %d overflows int64", u)
	}
	return int64(u), nil
}

// normalizeNumber handles json.Number without importing encoding/json here.
func normalizeNumber(n interface{ Int64() (int64, error) }) (any, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	s, ok := n.(fmt.Stringer)
	if !ok {
		return nil, fmt.Errorf("wire: unsupported number %v", n)
	}
	f, err := strconv.ParseFloat(s.String(), 64)
	if err != nil {
		return nil, fmt.Errorf("wire: invalid number %q", s.String())
	}
	return f, nil
}
