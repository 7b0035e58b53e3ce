// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package command

import (
	"strings"

	"github.com/yeetrun/cmdtree/pkg/types"
	"tailscale.com/util/mak"
	"tailscale.com/util/set"
)

// Result is the outcome of a successful resolution. It is built fresh by
// every Resolve call and not modified afterwards.
type Result struct {
	// Command is the command that was resolved, after descending into
	// child commands.
	Command *Command
	// Options maps canonical option names to their coerced values.
	Options map[string]any
	// Args holds coerced positional values in declaration order. A
	// variadic argument contributes one []any element; so does a list.
	Args []any
	// Literal holds the tokens after a bare "--", untouched.
	Literal []string
	// Standalone is set when a standalone option stopped resolution.
	// Tokens after it were ignored and no required checks ran.
	Standalone *Option

	// applied lists matched options in the order they were first seen.
	applied []*Option
}

// Option returns the value stored for the canonical option name.
func (r *Result) Option(name string) (any, bool) {
	v, ok := r.Options[name]
	return v, ok
}

// Resolve parses argv (without the program name) against c.
//
// Flags are matched against the current command and the global options of
// its ancestors. The first positional token that names a child command
// descends into it; other positional tokens bind to the declared arguments
// in order. Nothing is returned on failure: the error is one of the typed
// errors in this package.
func (c *Command) Resolve(argv []string) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	r := &resolver{cmd: c}
	if err := r.run(argv); err != nil {
		return nil, err
	}
	res := &Result{
		Command:    r.cmd,
		Options:    r.opts,
		Args:       r.args,
		Literal:    r.literal,
		Standalone: r.standalone,
		applied:    r.order,
	}
	if res.Options == nil {
		res.Options = map[string]any{}
	}
	if res.Args == nil {
		res.Args = []any{}
	}
	return res, nil
}

type resolver struct {
	cmd  *Command
	opts map[string]any
	// seen and order track the options supplied on the command line;
	// defaults are never recorded here. A parent option and a child option
	// sharing a name are distinct entries.
	seen  set.Set[*Option]
	order []*Option

	args []any
	// argIdx is the next descriptor of cmd.args to bind.
	argIdx int
	// bound counts positional tokens bound on cmd.
	bound int
	rest  []any

	literal    []string
	standalone *Option
}

func (r *resolver) run(argv []string) error {
	for i := 0; i < len(argv) && r.standalone == nil; i++ {
		tok := argv[i]
		var (
			consumed int
			err      error
		)
		switch {
		case tok == "--":
			r.literal = append([]string{}, argv[i+1:]...)
			i = len(argv)
		case strings.HasPrefix(tok, "--"):
			consumed, err = r.long(tok, argv[i+1:])
		case isShortFlag(tok):
			consumed, err = r.short(tok, argv[i+1:])
		default:
			err = r.positional(tok)
		}
		if err != nil {
			return err
		}
		i += consumed
	}
	if r.standalone != nil {
		return nil
	}
	return r.finish()
}

// isShortFlag reports whether tok is a single-dash flag. A lone "-" and
// negative numbers are positional.
func isShortFlag(tok string) bool {
	return len(tok) > 1 && tok[0] == '-' && !isNumeric(tok)
}

func (r *resolver) long(tok string, rest []string) (int, error) {
	flag, value, inline := strings.Cut(tok, "=")
	o := r.cmd.findOption(flag)
	if o == nil {
		return 0, r.unknownOption(flag)
	}
	return r.apply(o, flag, value, inline, rest)
}

// short handles "-f", "-fvalue", "-f=value" and clusters like "-abc".
// Every letter but the last must name an option; an option that takes a
// value swallows the rest of the cluster as that value.
func (r *resolver) short(tok string, rest []string) (int, error) {
	cluster, value, inline := strings.Cut(tok[1:], "=")
	letters := []rune(cluster)
	for i, ch := range letters {
		flag := "-" + string(ch)
		o := r.cmd.findOption(flag)
		if o == nil {
			return 0, r.unknownOption(flag)
		}
		if i == len(letters)-1 {
			return r.apply(o, flag, value, inline, rest)
		}
		if o.Value != nil {
			attached := string(letters[i+1:])
			if inline {
				attached += "=" + value
			}
			if !o.Value.Optional || r.accepts(o, attached) {
				return r.apply(o, flag, attached, true, nil)
			}
		}
		if _, err := r.apply(o, flag, "", false, nil); err != nil {
			return 0, err
		}
		if r.standalone != nil {
			return 0, nil
		}
	}
	return 0, nil
}

func (r *resolver) accepts(o *Option, raw string) bool {
	h, err := r.cmd.lookupType(o.valueType())
	if err != nil {
		return false
	}
	if o.Value != nil && o.Value.List {
		for _, part := range strings.Split(raw, ",") {
			if !types.Accepts(h, part) {
				return false
			}
		}
		return true
	}
	return types.Accepts(h, raw)
}

// apply coerces the option's value and records it. It returns how many of
// the following tokens were consumed as the value.
func (r *resolver) apply(o *Option, flag, value string, inline bool, rest []string) (int, error) {
	consumed := 0
	var val any
	switch {
	case inline:
		v, err := r.coerceOption(o, flag, value)
		if err != nil {
			return 0, err
		}
		val = v
	case o.Value == nil:
		val = true
	case o.Value.Optional:
		if len(rest) > 0 && !looksLikeFlag(rest[0]) && r.accepts(o, rest[0]) {
			v, err := r.coerceOption(o, flag, rest[0])
			if err != nil {
				return 0, err
			}
			val, consumed = v, 1
		} else {
			val = true
		}
	default:
		if len(rest) == 0 || looksLikeFlag(rest[0]) {
			return 0, &InvalidValueError{Option: o.Flag(), Type: o.Value.Type, Err: ErrMissingValue}
		}
		v, err := r.coerceOption(o, flag, rest[0])
		if err != nil {
			return 0, err
		}
		val, consumed = v, 1
	}
	if err := r.record(o, val); err != nil {
		return 0, err
	}
	return consumed, nil
}

func (r *resolver) coerceOption(o *Option, flag, raw string) (any, error) {
	typ := o.valueType()
	h, err := r.cmd.lookupType(typ)
	if err != nil {
		return nil, err
	}
	if o.Value != nil && o.Value.List {
		return coerceList(h, raw, func(part string, err error) error {
			return &InvalidValueError{Option: o.Flag(), Type: typ, Value: part, Err: err}
		})
	}
	v, err := h.Parse(raw)
	if err != nil {
		return nil, &InvalidValueError{Option: o.Flag(), Type: typ, Value: raw, Err: err}
	}
	return v, nil
}

func coerceList(h types.Handler, raw string, wrap func(string, error) error) ([]any, error) {
	parts := strings.Split(raw, ",")
	out := make([]any, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		v, err := h.Parse(part)
		if err != nil {
			return nil, wrap(part, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// record stores a supplied option value after checking conflicts in both
// directions against the options seen so far.
func (r *resolver) record(o *Option, val any) error {
	name := o.Name()
	for _, prev := range r.order {
		if prev == o {
			continue
		}
		if o.ConflictsWith(prev.Name()) || prev.ConflictsWith(name) {
			return &ConflictingOptionsError{Option: o.Flag(), Conflict: prev.Flag()}
		}
	}
	if !r.seen.Contains(o) {
		if r.seen == nil {
			r.seen = set.Set[*Option]{}
		}
		r.seen.Add(o)
		r.order = append(r.order, o)
	}

	if list, ok := val.([]any); ok && o.Value != nil && o.Value.List {
		if prev, ok := r.opts[name].([]any); ok {
			list = append(prev, list...)
		}
		val = list
	}
	mak.Set(&r.opts, name, val)

	if o.Standalone {
		r.standalone = o
	}
	return nil
}

func (r *resolver) positional(tok string) error {
	if r.bound == 0 {
		if sub := r.cmd.findChild(tok); sub != nil {
			r.descend(sub)
			return nil
		}
	}
	if r.argIdx < len(r.cmd.args) {
		return r.bind(tok)
	}
	if r.bound == 0 && r.cmd.defaultCommand != "" {
		r.descend(r.cmd.findChild(r.cmd.defaultCommand))
		return r.positional(tok)
	}
	if looksLikeFlag(tok) {
		return r.unknownOption(tok)
	}
	return &UnknownCommandError{Token: tok, Command: r.cmd.Path(), Suggestion: suggest(tok, r.cmd.childNames())}
}

// descend makes sub the current command. Obligations of the parent, such
// as its required options, no longer apply.
func (r *resolver) descend(sub *Command) {
	r.cmd = sub
	r.args = nil
	r.rest = nil
	r.argIdx = 0
	r.bound = 0
}

func (r *resolver) bind(tok string) error {
	d := r.cmd.args[r.argIdx]
	h, err := r.cmd.lookupType(d.Type)
	if err != nil {
		return err
	}
	wrap := func(raw string, err error) error {
		return &InvalidValueError{Argument: d.Name, Type: d.Type, Value: raw, Err: err}
	}
	var val any
	if d.List {
		list, err := coerceList(h, tok, wrap)
		if err != nil {
			return err
		}
		if d.Variadic {
			r.rest = append(r.rest, list...)
			r.bound++
			return nil
		}
		val = list
	} else {
		v, err := h.Parse(tok)
		if err != nil {
			return wrap(tok, err)
		}
		val = v
	}
	r.bound++
	if d.Variadic {
		r.rest = append(r.rest, val)
		return nil
	}
	r.args = append(r.args, val)
	r.argIdx++
	return nil
}

// finish runs once all tokens are consumed: it falls back to the default
// command, checks for missing arguments, fills defaults and enforces
// required options.
func (r *resolver) finish() error {
	for r.bound == 0 && r.cmd.defaultCommand != "" {
		sub := r.cmd.findChild(r.cmd.defaultCommand)
		if sub == r.cmd {
			break
		}
		r.descend(sub)
	}

	for i := r.argIdx; i < len(r.cmd.args); i++ {
		d := r.cmd.args[i]
		if d.Variadic && len(r.rest) > 0 {
			break
		}
		if !d.Optional {
			return &MissingArgumentError{Argument: d.Name, Command: r.cmd.Path()}
		}
	}
	if len(r.rest) > 0 {
		r.args = append(r.args, r.rest)
	}

	visible := r.cmd.VisibleOptions()
	for _, o := range visible {
		if _, ok := r.opts[o.Name()]; !ok && o.Default != nil {
			mak.Set(&r.opts, o.Name(), o.Default)
		}
	}
	for _, o := range visible {
		if _, ok := r.opts[o.Name()]; o.Required && !ok {
			return &MissingRequiredOptionError{Option: o.Flag()}
		}
	}
	return nil
}

func (r *resolver) unknownOption(flag string) error {
	return &UnknownOptionError{Token: flag, Command: r.cmd.Path(), Suggestion: suggest(flag, r.cmd.optionFlags())}
}

// looksLikeFlag reports whether tok should not be taken as a value.
func looksLikeFlag(tok string) bool {
	return tok == "--" || strings.HasPrefix(tok, "--") || isShortFlag(tok)
}

// isNumeric reports whether s is a decimal number such as "10", "-10" or
// "-3.14".
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	start := 0
	if s[0] == '-' || s[0] == '+' {
		if len(s) == 1 {
			return false
		}
		start = 1
	}
	hasDigit, hasDot := false, false
	for i := start; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			hasDigit = true
		case s[i] == '.' && !hasDot:
			hasDot = true
		default:
			return false
		}
	}
	return hasDigit
}
