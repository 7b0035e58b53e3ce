// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifest

import (
	"fmt"
	"strings"

	"github.com/yeetrun/cmdtree/pkg/command"
	"github.com/yeetrun/cmdtree/pkg/types"
)

// Build returns a new command tree for spec.
func Build(spec Spec) (*command.Command, error) {
	c := command.New(spec.Name)
	if err := Apply(c, spec); err != nil {
		return nil, err
	}
	return c, nil
}

// Apply declares spec on c, which keeps its own name. Children are
// created with c's child factory, so a tree rooted in a command with
// help installed gets help on every level. The returned error is the
// first definition error in the tree.
func Apply(c *command.Command, spec Spec) error {
	if err := spec.Check(); err != nil {
		return err
	}
	if err := apply(c, spec); err != nil {
		return err
	}
	return c.Validate()
}

func apply(c *command.Command, spec Spec) error {
	if len(spec.Aliases) > 0 && c.Parent() == nil {
		c.Alias(spec.Aliases...)
	}
	if spec.Description != "" {
		c.Description(spec.Description)
	}
	if spec.Version != "" {
		c.Version(spec.Version)
	}
	if spec.Arguments != "" {
		c.Arguments(spec.Arguments)
	}
	if spec.Hidden {
		c.Hidden()
	}
	for _, o := range spec.Options {
		def, err := coerceDefault(o)
		if err != nil {
			return err
		}
		c.Option(o.Flags, o.Description, command.OptionConfig{
			Required:   o.Required,
			Default:    def,
			Conflicts:  o.Conflicts,
			Standalone: o.Standalone,
			Global:     o.Global,
			Hidden:     o.Hidden,
		})
	}
	for _, e := range spec.Env {
		c.Env(e.Names, e.Description)
	}
	for _, ex := range spec.Examples {
		c.Example(ex.Name, ex.Description)
	}
	for _, sub := range spec.Commands {
		names := strings.Join(append([]string{sub.Name}, sub.Aliases...), ", ")
		c.AddCommand(names, nil)
		if err := c.Err(); err != nil {
			return err
		}
		child, err := c.GetCommand(sub.Name)
		if err != nil {
			return err
		}
		if err := apply(child, sub); err != nil {
			return err
		}
	}
	if spec.Default != "" {
		c.Default(spec.Default)
	}
	return c.Err()
}

// coerceDefault converts a decoded default to the option's value type so
// it matches what the resolver would produce for the same input.
func coerceDefault(o OptionSpec) (any, error) {
	if o.Default == nil {
		return nil, nil
	}
	opt, err := command.NewOption(o.Flags, o.Description, command.OptionConfig{})
	if err != nil {
		// Reported by the builder.
		return nil, nil
	}
	typ, list := types.Boolean, false
	if opt.Value != nil {
		typ, list = opt.Value.Type, opt.Value.List
	}
	h, err := types.Default().Resolve(typ)
	if err != nil {
		// Custom types are only known to the program; keep the raw value.
		return o.Default, nil
	}

	var raws []string
	switch v := o.Default.(type) {
	case []any:
		for _, x := range v {
			raws = append(raws, fmt.Sprint(x))
		}
	default:
		s := fmt.Sprint(v)
		if list {
			raws = strings.Split(s, ",")
		} else {
			raws = []string{s}
		}
	}
	if !list {
		if len(raws) != 1 {
			return nil, fmt.Errorf("option %q: default must be a single value", o.Flags)
		}
		v, err := h.Parse(raws[0])
		if err != nil {
			return nil, fmt.Errorf("option %q: default: %w", o.Flags, err)
		}
		return v, nil
	}
	out := make([]any, 0, len(raws))
	for _, raw := range raws {
		v, err := h.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("option %q: default: %w", o.Flags, err)
		}
		out = append(out, v)
	}
	return out, nil
}
