// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argdef parses compact argument definitions such as
//
//	<service:string> [tags...:string[]]
//
// into Descriptors and renders them back. A definition is enclosed in
// angle brackets when required and square brackets when optional. Inside,
// a trailing "..." on the name marks the argument variadic and a trailing
// "[]" on the type marks it as a comma separated list. The type defaults to
// "string" when omitted.
//
// Parsing is pure: the same input always yields the same descriptors, so
// help output and the resolver always agree on structure.
package argdef

import (
	"fmt"
	"strings"
)

// DefaultType is used when a definition omits ":type".
const DefaultType = "string"

// Descriptor describes one positional argument or option value.
type Descriptor struct {
	Name string
	Type string
	// Optional is true for [name] definitions.
	Optional bool
	// Variadic descriptors consume all remaining positional tokens.
	Variadic bool
	// List values are split on commas into multiple scalars.
	List bool
}

// String renders d in definition form, e.g. "<name...:type[]>".
func (d Descriptor) String() string {
	var b strings.Builder
	if d.Optional {
		b.WriteByte('[')
	} else {
		b.WriteByte('<')
	}
	b.WriteString(d.Name)
	if d.Variadic {
		b.WriteString("...")
	}
	b.WriteByte(':')
	b.WriteString(d.Type)
	if d.List {
		b.WriteString("[]")
	}
	if d.Optional {
		b.WriteByte(']')
	} else {
		b.WriteByte('>')
	}
	return b.String()
}

// MalformedDefinitionError reports a definition string that does not follow
// the grammar. It is a programming error in the CLI definition.
type MalformedDefinitionError struct {
	Spec   string
	Reason string
}

func (e *MalformedDefinitionError) Error() string {
	return fmt.Sprintf("malformed definition %q: %s", e.Spec, e.Reason)
}

// Parse parses a whitespace separated sequence of definitions.
// An empty spec yields no descriptors.
func Parse(spec string) ([]Descriptor, error) {
	fields := strings.Fields(spec)
	descs := make([]Descriptor, 0, len(fields))
	for _, field := range fields {
		d, err := parseOne(field)
		if err != nil {
			return nil, &MalformedDefinitionError{Spec: spec, Reason: err.Error()}
		}
		descs = append(descs, d)
	}
	return descs, nil
}

// ParseOne parses a spec that must contain exactly one definition.
func ParseOne(spec string) (Descriptor, error) {
	descs, err := Parse(spec)
	if err != nil {
		return Descriptor{}, err
	}
	if len(descs) != 1 {
		return Descriptor{}, &MalformedDefinitionError{Spec: spec, Reason: fmt.Sprintf("expected one definition, got %d", len(descs))}
	}
	return descs[0], nil
}

func parseOne(field string) (Descriptor, error) {
	var d Descriptor
	if len(field) < 2 {
		return d, fmt.Errorf("definition %q is too short", field)
	}
	first, last := field[0], field[len(field)-1]
	switch {
	case first == '<' && last == '>':
	case first == '[' && last == ']':
		d.Optional = true
	case first != '<' && first != '[':
		return d, fmt.Errorf("definition %q must start with '<' or '['", field)
	default:
		return d, fmt.Errorf("bracket mismatch in %q", field)
	}

	inner := field[1 : len(field)-1]
	if strings.ContainsAny(inner, "<>") {
		return d, fmt.Errorf("bracket mismatch in %q", field)
	}

	name, typ, hasType := strings.Cut(inner, ":")
	if strings.HasPrefix(name, "...") {
		d.Variadic = true
		name = strings.TrimPrefix(name, "...")
	}
	if strings.HasSuffix(name, "...") {
		d.Variadic = true
		name = strings.TrimSuffix(name, "...")
	}
	if name == "" {
		return d, fmt.Errorf("missing name in %q", field)
	}
	if strings.ContainsAny(name, "[]:.") {
		return d, fmt.Errorf("invalid name %q", name)
	}
	d.Name = name

	if !hasType {
		d.Type = DefaultType
		return d, nil
	}
	if strings.HasSuffix(typ, "[]") {
		d.List = true
		typ = strings.TrimSuffix(typ, "[]")
	}
	if typ == "" {
		return d, fmt.Errorf("missing type in %q", field)
	}
	if strings.ContainsAny(typ, "[]:.") {
		return d, fmt.Errorf("invalid type %q", typ)
	}
	d.Type = typ
	return d, nil
}

// Validate checks ordering constraints on a sequence of positional
// descriptors: at most one variadic descriptor, which must be last, and no
// required descriptor after an optional one.
func Validate(descs []Descriptor) error {
	optional := ""
	for i, d := range descs {
		if d.Variadic && i != len(descs)-1 {
			return &MalformedDefinitionError{Spec: Format(descs), Reason: fmt.Sprintf("variadic argument %q must be last", d.Name)}
		}
		if d.Optional {
			optional = d.Name
			continue
		}
		if optional != "" {
			return &MalformedDefinitionError{Spec: Format(descs), Reason: fmt.Sprintf("required argument %q follows optional argument %q", d.Name, optional)}
		}
	}
	return nil
}

// Format renders descs back to definition form.
func Format(descs []Descriptor) string {
	parts := make([]string, len(descs))
	for i, d := range descs {
		parts[i] = d.String()
	}
	return strings.Join(parts, " ")
}

// SplitNames splits a spec like "-f, --flag [value:string]" or
// "deploy <svc>" into its leading names and the remaining definition text.
// Names are separated by commas and/or spaces; the definition starts at the
// first token opening with '<' or '['.
func SplitNames(spec string) (names []string, definition string) {
	rest := strings.TrimSpace(spec)
	for rest != "" {
		if rest[0] == '<' || rest[0] == '[' {
			break
		}
		end := strings.IndexAny(rest, ", ")
		if end == -1 {
			end = len(rest)
		}
		if name := rest[:end]; name != "" {
			names = append(names, name)
		}
		rest = strings.TrimLeft(rest[end:], ", ")
	}
	return names, rest
}
