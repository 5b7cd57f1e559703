package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by every typed error of the matching kind via errors.Is.
var (
	ErrArity               = errors.New("invalid number of arguments")
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrMissingField        = errors.New("missing field")
	ErrUnknownField        = errors.New("unknown field")
	ErrMalformedDescriptor = errors.New("malformed type descriptor")
)

// ArityError reports argument counts that violate a record's bounds.
type ArityError struct {
	Record     string
	Positional int
	Named      int
	Required   int
	Optional   int
	Reason     string // set when the counts are fine but a field is bound twice
}

func (e *ArityError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Record, e.Reason)
	}
	return fmt.Sprintf("%s: invalid number of arguments (%d positional, %d named; %d required, %d optional)",
		e.Record, e.Positional, e.Named, e.Required, e.Optional)
}

func (e *ArityError) Is(target error) bool { return target == ErrArity }

// TypeMismatchError reports a value that does not fit its declared descriptor.
type TypeMismatchError struct {
	Path     string // Dotted location of the value, e.g. "mob.pieces[0].kind"
	Expected string // Name of the expected descriptor
	Value    any    // The offending value
	Reason   string // Optional detail (arity, key format)
}

func (e *TypeMismatchError) Error() string {
	msg := fmt.Sprintf("%s: expected %s, got %s", e.location(), e.Expected, describe(e.Value))
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *TypeMismatchError) location() string {
	if e.Path == "" {
		return "value"
	}
	return e.Path
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// MissingFieldError reports a required field absent from named arguments or a mapping.
type MissingFieldError struct {
	Record string
	Field  string
	Path   string
}

func (e *MissingFieldError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: missing required field %q of %s", e.Path, e.Field, e.Record)
	}
	return fmt.Sprintf("%s: missing required field %q", e.Record, e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// UnknownFieldError reports a name that is not a declared field of the record.
type UnknownFieldError struct {
	Record string
	Field  string
	Path   string
}

func (e *UnknownFieldError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: unknown field %q for %s", e.Path, e.Field, e.Record)
	}
	return fmt.Sprintf("%s: unknown field %q", e.Record, e.Field)
}

func (e *UnknownFieldError) Is(target error) bool { return target == ErrUnknownField }

// MalformedDescriptorError is a schema definition defect. It is only returned
// while a record is being defined or a type string parsed.
type MalformedDescriptorError struct {
	Record string
	Field  string
	Reason string
}

func (e *MalformedDescriptorError) Error() string {
	var b strings.Builder
	b.WriteString("malformed descriptor")
	if e.Record != "" {
		b.WriteString(" in ")
		b.WriteString(e.Record)
		if e.Field != "" {
			b.WriteString(".")
			b.WriteString(e.Field)
		}
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

func (e *MalformedDescriptorError) Is(target error) bool { return target == ErrMalformedDescriptor }

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error { return e.Errors }

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
