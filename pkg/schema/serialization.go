package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/aretw0/spiritual/pkg/wire"
)

// ParseType converts a type string to a Type. Grammar:
//
//	type   = term { "|" term }
//	term   = "bool" | "int" | "float" | "string" | "null" | "any"
//	       | "[" type "]"                    sequence
//	       | "(" type { "," type } ")"       tuple
//	       | "{" type ":" type "}"           mapping
//	       | "set[" type "]"                 set
//	       | record name                     resolved through reg
//
// Names produced by Type.Name parse back to an equivalent descriptor.
func ParseType(typeStr string, reg *Registry) (Type, error) {
	p := &typeParser{src: typeStr, reg: reg}
	t, err := p.union()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	if reason := checkDescriptor(t); reason != "" {
		return nil, &MalformedDescriptorError{Reason: fmt.Sprintf("%s: %s", typeStr, reason)}
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
	reg *Registry
}

func (p *typeParser) errorf(format string, args ...any) error {
	return &MalformedDescriptorError{
		Reason: fmt.Sprintf("type %q at %d: %s", p.src, p.pos, fmt.Sprintf(format, args...)),
	}
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *typeParser) accept(tok string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *typeParser) expect(tok string) error {
	if !p.accept(tok) {
		return p.errorf("expected %q", tok)
	}
	return nil
}

func (p *typeParser) union() (Type, error) {
	first, err := p.term()
	if err != nil {
		return nil, err
	}
	alts := []Type{first}
	for p.accept("|") {
		next, err := p.term()
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
	}
	if len(alts) == 1 {
		return first, nil
	}
	return Union(alts...), nil
}

func (p *typeParser) term() (Type, error) {
	switch {
	case p.accept("set["):
		elem, err := p.union()
		if err != nil {
			return nil, err
		}
		return SetOf(elem), p.expect("]")
	case p.accept("["):
		elem, err := p.union()
		if err != nil {
			return nil, err
		}
		return Seq(elem), p.expect("]")
	case p.accept("("):
		var elems []Type
		if p.accept(")") {
			return Tuple(), nil
		}
		for {
			e, err := p.union()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.accept(")") {
				return Tuple(elems...), nil
			}
			if err := p.expect(","); err != nil {
				return nil, err
			}
		}
	case p.accept("{"):
		key, err := p.union()
		if err != nil {
			return nil, err
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		value, err := p.union()
		if err != nil {
			return nil, err
		}
		return Map(key, value), p.expect("}")
	}

	name := p.ident()
	switch name {
	case "":
		return nil, p.errorf("expected a type")
	case "bool":
		return Bool(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "string":
		return String(), nil
	case "null":
		return Null(), nil
	case "any":
		return Any(), nil
	}
	if r, ok := p.reg.Lookup(name); ok {
		return Ref(r), nil
	}
	return nil, p.errorf("unsupported type: %s", name)
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' && c != '.' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

// FieldSpec is the declarative, serializable description of one field.
type FieldSpec struct {
	Name    string `json:"name" yaml:"name" mapstructure:"name"`
	Type    string `json:"type" yaml:"type" mapstructure:"type"`
	Default any    `json:"default,omitempty" yaml:"default,omitempty" mapstructure:"default"`
	// HasDefault distinguishes a null default from no default.
	HasDefault bool `json:"has_default,omitempty" yaml:"has_default,omitempty" mapstructure:"has_default"`
}

// RecordSpec is the declarative description of a record.
type RecordSpec struct {
	Name   string      `json:"name" yaml:"name" mapstructure:"name"`
	Strict bool        `json:"strict,omitempty" yaml:"strict,omitempty" mapstructure:"strict"`
	Fields []FieldSpec `json:"fields" yaml:"fields" mapstructure:"fields"`
}

// Spec describes the record as a field table; defaults are dumped to wire form.
func (r *Record) Spec() RecordSpec {
	spec := RecordSpec{Name: r.name, Strict: r.strict, Fields: make([]FieldSpec, len(r.fields))}
	for i, f := range r.fields {
		fs := FieldSpec{Name: f.Name, Type: f.Type.Name()}
		if def, ok := f.Default.Get(); ok {
			fs.Default = Dump(def)
			fs.HasDefault = true
		}
		spec.Fields[i] = fs
	}
	return spec
}

// MarshalJSON serializes the record as its field table, keeping field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	spec := r.Spec()
	fields := make([]any, len(spec.Fields))
	for i, f := range spec.Fields {
		m := wire.MapOf("name", f.Name, "type", f.Type)
		if f.HasDefault {
			m.Set("default", f.Default)
			m.Set("has_default", true)
		}
		fields[i] = m
	}
	out := wire.MapOf("name", spec.Name)
	if spec.Strict {
		out.Set("strict", true)
	}
	out.Set("fields", fields)
	return wire.MarshalJSON(out)
}

// ParseRecordSpec defines a record from a field table. Type strings may name
// records already present in reg. Defaults are loaded against their field type.
func ParseRecordSpec(spec RecordSpec, reg *Registry) (*Record, error) {
	fields := make([]Field, 0, len(spec.Fields))
	for _, fs := range spec.Fields {
		t, err := ParseType(fs.Type, reg)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fs.Name, err)
		}
		if !fs.HasDefault && fs.Default == nil {
			fields = append(fields, Required(fs.Name, t))
			continue
		}
		wv, err := wire.Normalize(fs.Default)
		if err != nil {
			return nil, fmt.Errorf("field %s: default: %w", fs.Name, err)
		}
		def, err := Load(wv, t)
		if err != nil {
			return nil, &MalformedDescriptorError{Record: spec.Name, Field: fs.Name, Reason: "default: " + err.Error()}
		}
		fields = append(fields, Optional(fs.Name, t, def))
	}
	var opts []Option
	if spec.Strict {
		opts = append(opts, RejectUnknown())
	}
	return Define(spec.Name, fields, opts...)
}

// UnmarshalRecord defines a record from its JSON field table.
func UnmarshalRecord(data []byte, reg *Registry) (*Record, error) {
	var spec RecordSpec
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("schema: decode record spec: %w", err)
	}
	return ParseRecordSpec(spec, reg)
}
