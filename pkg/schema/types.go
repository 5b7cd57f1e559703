package schema

import (
	"strings"
)

// Type describes the declared shape of a field. The set of implementations is
// closed: Primitive, RefType, UnionType, SeqType, TupleType, MapType, SetType
// and AnyType. Every operation in this package dispatches over them with an
// exhaustive type switch.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "[int]").
	// Names round-trip through ParseType.
	Name() string
	sealed()
}

// PrimitiveKind enumerates the scalar wire kinds.
type PrimitiveKind int

const (
	KindBool PrimitiveKind = iota
	KindInt
	KindFloat
	KindString
	KindNull
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Primitive is a scalar descriptor.
type Primitive struct {
	Kind PrimitiveKind
}

func (t *Primitive) Name() string { return t.Kind.String() }
func (*Primitive) sealed()         {}

// RefType refers to another record, whose own schema governs the value.
type RefType struct {
	Record *Record
}

func (t *RefType) Name() string {
	if t.Record == nil {
		return "<nil record>"
	}
	return t.Record.Name()
}
func (*RefType) sealed() {}

// UnionType accepts a value matching any alternative. Alternatives are tried
// in declaration order and the first match wins.
type UnionType struct {
	Alternatives []Type
}

func (t *UnionType) Name() string {
	parts := make([]string, len(t.Alternatives))
	for i, alt := range t.Alternatives {
		parts[i] = typeName(alt)
	}
	return strings.Join(parts, "|")
}
func (*UnionType) sealed() {}

// SeqType is a homogeneous list of any length.
type SeqType struct {
	Elem Type
}

func (t *SeqType) Name() string { return "[" + typeName(t.Elem) + "]" }
func (*SeqType) sealed()         {}

// TupleType is a fixed-arity list whose positions have their own types.
type TupleType struct {
	Elems []Type
}

func (t *TupleType) Name() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = typeName(e)
	}
	return "(" + strings.Join(parts, ",") + ")"
}
func (*TupleType) sealed() {}

// MapType is a mapping whose keys and values each have a declared type.
// Keys must be non-null primitives so they have a text form on the wire.
type MapType struct {
	Key   Type
	Value Type
}

func (t *MapType) Name() string { return "{" + typeName(t.Key) + ":" + typeName(t.Value) + "}" }
func (*MapType) sealed()         {}

// SetType is an unordered collection of unique primitives, carried on the
// wire as a list.
type SetType struct {
	Elem Type
}

func (t *SetType) Name() string { return "set[" + typeName(t.Elem) + "]" }
func (*SetType) sealed()         {}

// AnyType accepts any wire value and keeps it untyped.
type AnyType struct{}

func (*AnyType) Name() string { return "any" }
func (*AnyType) sealed()      {}

func typeName(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.Name()
}

// --- Factory Functions ---

// Bool creates a boolean descriptor.
func Bool() Type { return &Primitive{Kind: KindBool} }

// Int creates an integer descriptor.
func Int() Type { return &Primitive{Kind: KindInt} }

// Float creates a number descriptor. Integers satisfy it and load as float64.
func Float() Type { return &Primitive{Kind: KindFloat} }

// String creates a text descriptor.
func String() Type { return &Primitive{Kind: KindString} }

// Null creates a descriptor for the null marker, mostly useful inside Union.
func Null() Type { return &Primitive{Kind: KindNull} }

// Any creates a descriptor that accepts every wire value.
func Any() Type { return &AnyType{} }

// Ref creates a descriptor for a nested record.
func Ref(r *Record) Type { return &RefType{Record: r} }

// Union creates a first-match union of alternatives.
func Union(alts ...Type) Type { return &UnionType{Alternatives: alts} }

// Seq creates a list descriptor.
func Seq(elem Type) Type { return &SeqType{Elem: elem} }

// Tuple creates a fixed-arity list descriptor.
func Tuple(elems ...Type) Type { return &TupleType{Elems: elems} }

// Map creates a mapping descriptor.
func Map(key, value Type) Type { return &MapType{Key: key, Value: value} }

// SetOf creates a set descriptor.
func SetOf(elem Type) Type { return &SetType{Elem: elem} }

// Nullable is shorthand for Union(t, Null()).
func Nullable(t Type) Type { return Union(t, Null()) }

// checkDescriptor rejects shapes the engine cannot handle. It runs once per
// field when a record is defined.
func checkDescriptor(t Type) string {
	switch t := t.(type) {
	case nil:
		return "type is nil"
	case *Primitive:
		if t.Kind < KindBool || t.Kind > KindNull {
			return "unknown primitive kind"
		}
	case *RefType:
		if t.Record == nil {
			return "reference to nil record"
		}
	case *UnionType:
		if len(t.Alternatives) == 0 {
			return "union without alternatives"
		}
		for _, alt := range t.Alternatives {
			if reason := checkDescriptor(alt); reason != "" {
				return reason
			}
		}
	case *SeqType:
		return checkDescriptor(t.Elem)
	case *TupleType:
		for _, e := range t.Elems {
			if reason := checkDescriptor(e); reason != "" {
				return reason
			}
		}
	case *MapType:
		if !isKeyType(t.Key) {
			return "mapping key " + typeName(t.Key) + " has no text form; use bool, int, float or string"
		}
		return checkDescriptor(t.Value)
	case *SetType:
		if !isKeyType(t.Elem) {
			return "set element " + typeName(t.Elem) + " is not a comparable primitive"
		}
	case *AnyType:
	default:
		return "unrecognized descriptor"
	}
	return ""
}

func isKeyType(t Type) bool {
	p, ok := t.(*Primitive)
	return ok && p.Kind != KindNull && p.Kind >= KindBool && p.Kind <= KindString
}
