// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package command

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/yeetrun/cmdtree/pkg/argdef"
	"github.com/yeetrun/cmdtree/pkg/types"
	"tailscale.com/util/set"
)

// OptionConfig holds the optional settings of an option declaration.
type OptionConfig struct {
	// Required options must be present once resolution finishes.
	Required bool
	// Default is stored under the option's name when it was not supplied.
	Default any
	// Conflicts lists option names (with or without dashes) that may not
	// be combined with this option. The check is symmetric.
	Conflicts []string
	// Standalone options stop resolution and skip required checks.
	Standalone bool
	// Global options stay visible in descendant commands.
	Global bool
	// Hidden options resolve normally but are left out of help.
	Hidden bool
	// Action runs after a successful resolution that matched the option.
	Action Action
}

// Option is a declared flag with its aliases and value contract.
type Option struct {
	// Flags is the declaration string, e.g. "-f, --flag [value:string]".
	Flags       string
	Description string
	// Names are the aliases including dashes, in declaration order.
	Names []string
	// Value describes the option's value. Nil means a plain boolean flag.
	Value *argdef.Descriptor

	Required   bool
	Default    any
	Conflicts  []string
	Standalone bool
	Global     bool
	Hidden     bool
	Action     Action
}

// NewOption parses a flag specification such as "-f, --flag <value:number>".
// Aliases are "-x" (one character) or "--word"; an optional argument
// definition after the aliases describes the value.
func NewOption(flags, description string, cfg OptionConfig) (*Option, error) {
	names, def := argdef.SplitNames(flags)
	if len(names) == 0 {
		return nil, &MalformedDefinitionError{Spec: flags, Reason: "option has no flags"}
	}
	seen := set.Set[string]{}
	for _, name := range names {
		if !validAlias(name) {
			return nil, &MalformedDefinitionError{Spec: flags, Reason: fmt.Sprintf("invalid flag %q", name)}
		}
		if seen.Contains(name) {
			return nil, &DuplicateAliasError{Alias: name}
		}
		seen.Add(name)
	}

	o := &Option{
		Flags:       flags,
		Description: description,
		Names:       names,
		Required:    cfg.Required,
		Default:     cfg.Default,
		Standalone:  cfg.Standalone,
		Global:      cfg.Global,
		Hidden:      cfg.Hidden,
		Action:      cfg.Action,
	}
	for _, c := range cfg.Conflicts {
		o.Conflicts = append(o.Conflicts, strings.TrimLeft(c, "-"))
	}
	if def != "" {
		d, err := argdef.ParseOne(def)
		if err != nil {
			var malformed *MalformedDefinitionError
			if errors.As(err, &malformed) {
				return nil, &MalformedDefinitionError{Spec: flags, Reason: malformed.Reason}
			}
			return nil, err
		}
		if d.Variadic {
			return nil, &MalformedDefinitionError{Spec: flags, Reason: "option values cannot be variadic"}
		}
		o.Value = &d
	}
	return o, nil
}

func validAlias(name string) bool {
	switch {
	case strings.HasPrefix(name, "--"):
		rest := name[2:]
		return len(rest) > 1 && !strings.ContainsAny(rest, "= ") && rest[0] != '-'
	case strings.HasPrefix(name, "-"):
		rest := name[1:]
		return len([]rune(rest)) == 1 && rest != "-" && rest != "="
	}
	return false
}

// Name returns the canonical name under which the option's value is
// stored: the first long alias without dashes, or the first short alias.
func (o *Option) Name() string {
	for _, n := range o.Names {
		if strings.HasPrefix(n, "--") {
			return n[2:]
		}
	}
	return strings.TrimLeft(o.Names[0], "-")
}

// Flag returns the alias used in messages, preferring the long form.
func (o *Option) Flag() string {
	for _, n := range o.Names {
		if strings.HasPrefix(n, "--") {
			return n
		}
	}
	return o.Names[0]
}

// TypeDefinition renders the value definition, or "" for plain flags.
func (o *Option) TypeDefinition() string {
	if o.Value == nil {
		return ""
	}
	return o.Value.String()
}

// HasAlias reports whether alias (including dashes) names this option.
func (o *Option) HasAlias(alias string) bool {
	return slices.Contains(o.Names, alias)
}

// ConflictsWith reports whether o declares name as conflicting.
func (o *Option) ConflictsWith(name string) bool {
	return slices.Contains(o.Conflicts, name)
}

func (o *Option) valueType() string {
	if o.Value == nil {
		return types.Boolean
	}
	return o.Value.Type
}
