// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package command declares command trees and resolves argument vectors
// against them.
//
// A tree is built once with the fluent builder methods on *Command:
//
//	root := command.New("app").
//	    Version("1.0.0").
//	    Option("-f, --force", "Overwrite existing files", command.OptionConfig{}).
//	    AddCommand("deploy <service:string>", nil)
//
// Builder methods never return errors. The first definition error is kept
// on the node and reported by Err, Validate, Resolve and Execute, so a
// misconfigured CLI fails before any user input is looked at. Use Must to
// turn such an error into a panic at startup.
//
// Once built, the tree is only read. Resolve may be called any number of
// times, including concurrently, as long as no builder method runs at the
// same time.
package command

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yeetrun/cmdtree/pkg/argdef"
	"github.com/yeetrun/cmdtree/pkg/types"
)

// builtinTypes is shared by every tree and never mutated.
var builtinTypes = types.Default()

// EnvVar documents an environment variable read by the program. The
// resolver does not read the environment; this is help metadata.
type EnvVar struct {
	Names       []string
	Type        string
	Description string
}

// Example is a named usage example shown in help.
type Example struct {
	Name        string
	Description string
}

// CommandMap pairs a child command with the names it answers to.
type CommandMap struct {
	Name    string
	Aliases []string
	Command *Command
}

// Command is a node in a command tree.
type Command struct {
	name        string
	aliases     []string
	description string
	version     string
	hidden      bool

	options  []*Option
	args     []argdef.Descriptor
	commands []*Command
	// defaultCommand names the child used when no child matches.
	defaultCommand string

	envVars  []EnvVar
	examples []Example
	types    *types.Registry
	action   Action

	// childFactory builds children added with a nil command.
	childFactory func(name string) *Command

	// parent is a lookup link for walking up the tree.
	parent *Command

	err error
}

// New returns an empty command named name.
func New(name string) *Command {
	return &Command{name: name}
}

// Must panics if c or any of its descendants has a definition error.
// It returns c so it can wrap a builder chain.
func Must(c *Command) *Command {
	if err := c.Validate(); err != nil {
		panic(err)
	}
	return c
}

func (c *Command) fail(err error) *Command {
	if c.err == nil {
		c.err = err
	}
	return c
}

// Err returns the first definition error recorded on c itself.
func (c *Command) Err() error {
	return c.err
}

// Alias adds alternative names for c.
func (c *Command) Alias(names ...string) *Command {
	for _, name := range names {
		if c.parent != nil {
			if other := c.parent.findChild(name); other != nil && other != c {
				return c.fail(&DuplicateAliasError{Alias: name, Command: c.parent.name})
			}
		}
		if name == c.name || slices.Contains(c.aliases, name) {
			return c.fail(&DuplicateAliasError{Alias: name, Command: c.name})
		}
		c.aliases = append(c.aliases, name)
	}
	return c
}

// Description sets the help description.
func (c *Command) Description(desc string) *Command {
	c.description = desc
	return c
}

// Version sets the version reported by c and, unless they set their own,
// its descendants.
func (c *Command) Version(v string) *Command {
	c.version = v
	return c
}

// Hidden leaves c out of its parent's help listing.
func (c *Command) Hidden() *Command {
	c.hidden = true
	return c
}

// Option declares a flag. See NewOption for the flags grammar. At most one
// OptionConfig is used.
func (c *Command) Option(flags, description string, cfg ...OptionConfig) *Command {
	var conf OptionConfig
	if len(cfg) > 0 {
		conf = cfg[0]
	}
	o, err := NewOption(flags, description, conf)
	if err != nil {
		if dup, ok := err.(*DuplicateAliasError); ok {
			dup.Command = c.name
		}
		return c.fail(err)
	}
	for _, existing := range c.options {
		for _, alias := range o.Names {
			if existing.HasAlias(alias) {
				return c.fail(&DuplicateAliasError{Alias: alias, Command: c.name})
			}
		}
		if existing.Name() == o.Name() {
			return c.fail(&DuplicateAliasError{Alias: o.Name(), Command: c.name})
		}
	}
	c.options = append(c.options, o)
	return c
}

// Arguments declares the positional arguments, e.g. "<src> [dst...:string]".
func (c *Command) Arguments(spec string) *Command {
	descs, err := argdef.Parse(spec)
	if err != nil {
		return c.fail(err)
	}
	if err := argdef.Validate(descs); err != nil {
		return c.fail(err)
	}
	c.args = descs
	return c
}

// AddCommand attaches sub under the name given in nameAndArgs. The string
// may list aliases after the name and end with an argument definition,
// e.g. "remove, rm <service:string>". A nil sub is created by the child
// factory, or with New if none is set. Adding a name that already exists
// is a DuplicateAliasError; use ReplaceCommand to override.
func (c *Command) AddCommand(nameAndArgs string, sub *Command) *Command {
	return c.addCommand(nameAndArgs, sub, false)
}

// ReplaceCommand is like AddCommand but replaces an existing child with
// the same name.
func (c *Command) ReplaceCommand(nameAndArgs string, sub *Command) *Command {
	return c.addCommand(nameAndArgs, sub, true)
}

func (c *Command) addCommand(nameAndArgs string, sub *Command, override bool) *Command {
	names, def := argdef.SplitNames(nameAndArgs)
	if len(names) == 0 {
		return c.fail(&MalformedDefinitionError{Spec: nameAndArgs, Reason: "command has no name"})
	}
	name := names[0]
	if strings.HasPrefix(name, "-") {
		return c.fail(&MalformedDefinitionError{Spec: nameAndArgs, Reason: fmt.Sprintf("invalid command name %q", name)})
	}
	if sub == nil {
		if c.childFactory != nil {
			sub = c.childFactory(name)
		} else {
			sub = New(name)
		}
	}
	// Overrides match by name only; an alias collision is always an error.
	var replaced *Command
	if existing := c.findChild(name); existing != nil {
		if !override || existing.name != name {
			return c.fail(&DuplicateAliasError{Alias: name, Command: c.name})
		}
		replaced = existing
	}
	for _, alias := range sub.aliases {
		if other := c.findChild(alias); other != nil && other != replaced {
			return c.fail(&DuplicateAliasError{Alias: alias, Command: c.name})
		}
	}
	if replaced != nil {
		c.commands = slices.DeleteFunc(c.commands, func(x *Command) bool { return x == replaced })
		replaced.parent = nil
	}
	sub.name = name
	sub.parent = c
	c.commands = append(c.commands, sub)

	if len(names) > 1 {
		sub.Alias(names[1:]...)
	}
	if def != "" {
		sub.Arguments(def)
	}
	return c
}

// SetChildFactory sets the constructor used by AddCommand for nil commands.
func (c *Command) SetChildFactory(f func(name string) *Command) *Command {
	c.childFactory = f
	return c
}

// Default names the child command to fall back to when a positional token
// matches no child, or when no positional token is given at all.
func (c *Command) Default(name string) *Command {
	c.defaultCommand = name
	return c
}

// Type registers a value type for c and its descendants. A later
// registration of the same name replaces the earlier one.
func (c *Command) Type(name string, h types.Handler) *Command {
	if c.types == nil {
		c.types = types.NewRegistry()
	}
	c.types.Register(name, h)
	return c
}

// Env documents an environment variable. spec lists one or more names,
// optionally followed by a value definition: "API_TOKEN, TOKEN <token:string>".
func (c *Command) Env(spec, description string) *Command {
	names, def := argdef.SplitNames(spec)
	if len(names) == 0 {
		return c.fail(&MalformedDefinitionError{Spec: spec, Reason: "environment variable has no name"})
	}
	typ := argdef.DefaultType
	if def != "" {
		d, err := argdef.ParseOne(def)
		if err != nil {
			return c.fail(err)
		}
		typ = d.Type
	}
	c.envVars = append(c.envVars, EnvVar{Names: names, Type: typ, Description: description})
	return c
}

// Example adds a usage example.
func (c *Command) Example(name, description string) *Command {
	c.examples = append(c.examples, Example{Name: name, Description: description})
	return c
}

// Action sets the hook that runs after c is resolved.
func (c *Command) Action(fn Action) *Command {
	c.action = fn
	return c
}

// Validate reports the first definition error in c or its descendants:
// errors recorded while building, unknown value types, conflicts that name
// undeclared options and child names or aliases used twice.
func (c *Command) Validate() error {
	if c.err != nil {
		return c.err
	}
	visible := c.VisibleOptions()
	for _, o := range c.options {
		if o.Value != nil {
			if _, err := c.lookupType(o.Value.Type); err != nil {
				return err
			}
		}
		for _, name := range o.Conflicts {
			if findByName(visible, name) == nil {
				return &MalformedDefinitionError{Spec: o.Flags, Reason: fmt.Sprintf("conflicts with undeclared option %q", name)}
			}
		}
	}
	for _, d := range c.args {
		if _, err := c.lookupType(d.Type); err != nil {
			return err
		}
	}
	owners := make(map[string]*Command)
	for _, sub := range c.commands {
		for _, name := range append([]string{sub.name}, sub.aliases...) {
			if other, ok := owners[name]; ok && other != sub {
				return &DuplicateAliasError{Alias: name, Command: c.name}
			}
			owners[name] = sub
		}
	}
	if c.defaultCommand != "" && c.findChild(c.defaultCommand) == nil {
		return &MalformedDefinitionError{Spec: c.defaultCommand, Reason: fmt.Sprintf("default command of %q does not exist", c.Path())}
	}
	for _, sub := range c.commands {
		if err := sub.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func findByName(opts []*Option, name string) *Option {
	for _, o := range opts {
		if o.Name() == name {
			return o
		}
	}
	return nil
}

// lookupType resolves a type name on c, its ancestors, then the built-ins.
func (c *Command) lookupType(name string) (types.Handler, error) {
	for n := c; n != nil; n = n.parent {
		if h, ok := n.types.Lookup(name); ok {
			return h, nil
		}
	}
	return builtinTypes.Resolve(name)
}

// findChild returns the child named name, checking names before aliases.
func (c *Command) findChild(name string) *Command {
	for _, sub := range c.commands {
		if sub.name == name {
			return sub
		}
	}
	for _, sub := range c.commands {
		if slices.Contains(sub.aliases, name) {
			return sub
		}
	}
	return nil
}

// GetCommand returns the child matching nameOrAlias, falling back to the
// default command if one is configured.
func (c *Command) GetCommand(nameOrAlias string) (*Command, error) {
	if sub := c.findChild(nameOrAlias); sub != nil {
		return sub, nil
	}
	if c.defaultCommand != "" {
		if sub := c.findChild(c.defaultCommand); sub != nil {
			return sub, nil
		}
	}
	return nil, &UnknownCommandError{Token: nameOrAlias, Command: c.Path(), Suggestion: suggest(nameOrAlias, c.childNames())}
}

func (c *Command) childNames() []string {
	var names []string
	for _, sub := range c.commands {
		if sub.hidden {
			continue
		}
		names = append(names, sub.name)
		names = append(names, sub.aliases...)
	}
	return names
}

// findOption looks up a flag on c, then on the global options of its
// ancestors, nearest first.
func (c *Command) findOption(alias string) *Option {
	for _, o := range c.options {
		if o.HasAlias(alias) {
			return o
		}
	}
	for n := c.parent; n != nil; n = n.parent {
		for _, o := range n.options {
			if o.Global && o.HasAlias(alias) {
				return o
			}
		}
	}
	return nil
}

// VisibleOptions returns the options that can be used on c: its own
// followed by inherited global options not shadowed by a nearer one.
func (c *Command) VisibleOptions() []*Option {
	out := slices.Clone(c.options)
	for n := c.parent; n != nil; n = n.parent {
		for _, o := range n.options {
			if !o.Global || shadowed(out, o) {
				continue
			}
			out = append(out, o)
		}
	}
	return out
}

func shadowed(opts []*Option, o *Option) bool {
	for _, x := range opts {
		if x.Name() == o.Name() {
			return true
		}
		for _, alias := range o.Names {
			if x.HasAlias(alias) {
				return true
			}
		}
	}
	return false
}

func (c *Command) optionFlags() []string {
	var flags []string
	for _, o := range c.VisibleOptions() {
		if !o.Hidden {
			flags = append(flags, o.Names...)
		}
	}
	return flags
}

// Name returns the command name.
func (c *Command) Name() string { return c.name }

// Aliases returns the alternative names of c.
func (c *Command) Aliases() []string { return slices.Clone(c.aliases) }

// Path returns the space separated names from the root to c.
func (c *Command) Path() string {
	if c.parent == nil {
		return c.name
	}
	return c.parent.Path() + " " + c.name
}

// Parent returns the parent command, or nil for the root.
func (c *Command) Parent() *Command { return c.parent }

// Root returns the root of the tree containing c.
func (c *Command) Root() *Command {
	n := c
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// GetDescription returns the help description.
func (c *Command) GetDescription() string { return c.description }

// GetVersion returns the version of c or of its nearest ancestor that has one.
func (c *Command) GetVersion() string {
	for n := c; n != nil; n = n.parent {
		if n.version != "" {
			return n.version
		}
	}
	return ""
}

// IsHidden reports whether c is left out of help.
func (c *Command) IsHidden() bool { return c.hidden }

// ArgsDefinition renders the positional argument definitions.
func (c *Command) ArgsDefinition() string { return argdef.Format(c.args) }

// ArgumentDescriptors returns the positional argument descriptors.
func (c *Command) ArgumentDescriptors() []argdef.Descriptor { return slices.Clone(c.args) }

// Options returns the non-hidden options visible on c.
func (c *Command) Options() []*Option {
	var out []*Option
	for _, o := range c.VisibleOptions() {
		if !o.Hidden {
			out = append(out, o)
		}
	}
	return out
}

// Commands returns all child commands in declaration order.
func (c *Command) Commands() []*Command { return slices.Clone(c.commands) }

// CommandMaps returns the non-hidden children with their aliases.
func (c *Command) CommandMaps() []CommandMap {
	var out []CommandMap
	for _, sub := range c.commands {
		if sub.hidden {
			continue
		}
		out = append(out, CommandMap{Name: sub.name, Aliases: slices.Clone(sub.aliases), Command: sub})
	}
	return out
}

// EnvVars returns the documented environment variables.
func (c *Command) EnvVars() []EnvVar { return slices.Clone(c.envVars) }

// Examples returns the usage examples.
func (c *Command) Examples() []Example { return slices.Clone(c.examples) }

func (c *Command) HasOptions() bool  { return len(c.Options()) > 0 }
func (c *Command) HasCommands() bool { return len(c.CommandMaps()) > 0 }
func (c *Command) HasEnvVars() bool  { return len(c.envVars) > 0 }
func (c *Command) HasExamples() bool { return len(c.examples) > 0 }
