// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package types maps type names used in argument definitions to the
// functions that coerce raw command-line strings into typed values.
//
// A Registry is a plain map from name to Handler. Registering a name that
// already exists replaces the previous handler, which is how callers
// override a built-in such as "boolean" without any special casing.
package types

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidValue is wrapped by handlers when a raw string cannot be
// converted to the handler's type.
var ErrInvalidValue = errors.New("invalid value")

// Handler converts a raw token into a typed value.
type Handler interface {
	Parse(raw string) (any, error)
}

// Validator is implemented by handlers that can cheaply tell whether a raw
// token is acceptable without converting it. The resolver uses it to decide
// whether an option with an optional value may take the following token.
type Validator interface {
	Validate(raw string) bool
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(raw string) (any, error)

func (f HandlerFunc) Parse(raw string) (any, error) {
	return f(raw)
}

// UnknownTypeError is returned when a type name is not registered.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type: %s", e.Name)
}

// Registry holds named handlers. The zero value is empty and ready to use.
// A Registry is not safe for concurrent mutation; it is built up front and
// then only read.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Default returns a new registry pre-populated with the built-in handlers.
func Default() *Registry {
	r := NewRegistry()
	for name, h := range builtins() {
		r.Register(name, h)
	}
	return r
}

// Register installs h under name, replacing any existing handler.
func (r *Registry) Register(name string, h Handler) {
	if r.handlers == nil {
		r.handlers = make(map[string]Handler)
	}
	r.handlers[name] = h
}

// Lookup returns the handler for name and whether it exists.
func (r *Registry) Lookup(name string) (Handler, bool) {
	if r == nil {
		return nil, false
	}
	h, ok := r.handlers[name]
	return h, ok
}

// Resolve returns the handler for name or an *UnknownTypeError.
func (r *Registry) Resolve(name string) (Handler, error) {
	h, ok := r.Lookup(name)
	if !ok {
		return nil, &UnknownTypeError{Name: name}
	}
	return h, nil
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Clone returns a copy of r that can be modified independently.
func (r *Registry) Clone() *Registry {
	out := NewRegistry()
	if r == nil {
		return out
	}
	for name, h := range r.handlers {
		out.Register(name, h)
	}
	return out
}

// Accepts reports whether h would accept raw. Handlers without a Validator
// accept everything.
func Accepts(h Handler, raw string) bool {
	if v, ok := h.(Validator); ok {
		return v.Validate(raw)
	}
	return true
}
