package schema

import (
	"fmt"

	"github.com/aretw0/spiritual/pkg/wire"
)

// Matches reports whether a wire value is structurally well-formed for t,
// without building anything.
func Matches(v any, t Type) bool {
	return Check(v, t) == nil
}

// Check is Matches with a diagnosis: it returns the first failure found as a
// TypeMismatchError, MissingFieldError or UnknownFieldError.
func Check(v any, t Type) error {
	return check(v, t, "")
}

// IsValid reports whether v is a mapping that satisfies the record: every
// required field present and every present field matching its descriptor.
func (r *Record) IsValid(v any) bool {
	return r.check(v, "") == nil
}

// Check is IsValid with a diagnosis.
func (r *Record) Check(v any) error {
	return r.check(v, "")
}

func check(v any, t Type, path string) error {
	switch t := t.(type) {
	case *Primitive:
		if matchPrimitive(v, t.Kind) {
			return nil
		}
	case *RefType:
		return t.Record.check(v, path)
	case *UnionType:
		for _, alt := range t.Alternatives {
			if check(v, alt, path) == nil {
				return nil
			}
		}
	case *SeqType:
		list, ok := asList(v)
		if !ok {
			break
		}
		for i, e := range list {
			if err := check(e, t.Elem, indexPath(path, i)); err != nil {
				return err
			}
		}
		return nil
	case *SetType:
		list, ok := asList(v)
		if !ok {
			break
		}
		for i, e := range list {
			if err := check(e, t.Elem, indexPath(path, i)); err != nil {
				return err
			}
		}
		return nil
	case *TupleType:
		list, ok := asList(v)
		if !ok {
			break
		}
		if len(list) != len(t.Elems) {
			return &TypeMismatchError{Path: path, Expected: t.Name(), Value: v,
				Reason: fmt.Sprintf("arity %d, want %d", len(list), len(t.Elems))}
		}
		for i, e := range list {
			if err := check(e, t.Elems[i], indexPath(path, i)); err != nil {
				return err
			}
		}
		return nil
	case *MapType:
		entries, ok := asEntries(v)
		if !ok {
			break
		}
		seen := make(map[any]bool, len(entries))
		for _, e := range entries {
			key, ok := parseKey(e.key, t.Key)
			if !ok {
				return &TypeMismatchError{Path: keyPath(path, e.key), Expected: t.Key.Name(), Value: e.key,
					Reason: "mapping key"}
			}
			if seen[key] {
				return &TypeMismatchError{Path: keyPath(path, e.key), Expected: t.Key.Name(), Value: e.key,
					Reason: "duplicate mapping key"}
			}
			seen[key] = true
			if err := check(e.value, t.Value, keyPath(path, e.key)); err != nil {
				return err
			}
		}
		return nil
	case *AnyType:
		if _, err := wire.Normalize(v); err != nil {
			return &TypeMismatchError{Path: path, Expected: t.Name(), Value: v, Reason: err.Error()}
		}
		return nil
	}
	return &TypeMismatchError{Path: path, Expected: t.Name(), Value: v}
}

// matchPrimitive is exact on kinds except that integers satisfy float.
func matchPrimitive(v any, kind PrimitiveKind) bool {
	_, ok := coercePrimitive(v, kind)
	return ok
}

func (r *Record) check(v any, path string) error {
	entries, ok := asEntries(v)
	if !ok {
		return &TypeMismatchError{Path: path, Expected: r.name, Value: v, Reason: "expected mapping"}
	}
	present := make(map[string]any, len(entries))
	for _, e := range entries {
		if r.strict {
			if _, known := r.index[e.key]; !known {
				return &UnknownFieldError{Record: r.name, Field: e.key, Path: path}
			}
		}
		present[e.key] = e.value
	}
	for _, f := range r.fields {
		val, ok := present[f.Name]
		if !ok {
			if f.IsRequired() {
				return &MissingFieldError{Record: r.name, Field: f.Name, Path: path}
			}
			continue
		}
		if err := check(val, f.Type, joinPath(path, f.Name)); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks every field of a mapping against the record and reports all
// failures at once as an *AggregateError, for diagnostics. Unlike Check it
// does not stop at the first problem.
func (r *Record) Validate(v any) error {
	entries, ok := asEntries(v)
	if !ok {
		return &AggregateError{Errors: []error{
			&TypeMismatchError{Expected: r.name, Value: v, Reason: "expected mapping"},
		}}
	}

	var errs []error
	present := make(map[string]any, len(entries))
	for _, e := range entries {
		if _, known := r.index[e.key]; !known && r.strict {
			errs = append(errs, &UnknownFieldError{Record: r.name, Field: e.key})
		}
		present[e.key] = e.value
	}

	for _, f := range r.fields {
		val, ok := present[f.Name]
		if !ok {
			if f.IsRequired() {
				errs = append(errs, &MissingFieldError{Record: r.name, Field: f.Name})
			}
			continue
		}
		if err := check(val, f.Type, f.Name); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// ValidateFields validates only the named fields of a mapping. Names that are
// not fields of the record are reported as unknown.
func (r *Record) ValidateFields(v any, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	entries, ok := asEntries(v)
	if !ok {
		return &AggregateError{Errors: []error{
			&TypeMismatchError{Expected: r.name, Value: v, Reason: "expected mapping"},
		}}
	}
	present := make(map[string]any, len(entries))
	for _, e := range entries {
		present[e.key] = e.value
	}

	var errs []error
	for _, name := range fields {
		f, known := r.Field(name)
		if !known {
			errs = append(errs, &UnknownFieldError{Record: r.name, Field: name})
			continue
		}
		val, ok := present[name]
		if !ok {
			if f.IsRequired() {
				errs = append(errs, &MissingFieldError{Record: r.name, Field: name})
			}
			continue
		}
		if err := check(val, f.Type, name); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
