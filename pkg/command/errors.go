// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package command

import (
	"errors"
	"fmt"

	"github.com/yeetrun/cmdtree/pkg/argdef"
	"github.com/yeetrun/cmdtree/pkg/types"
)

// Definition errors. These are detected while the tree is built or
// validated and mean the CLI itself is misconfigured.
type (
	MalformedDefinitionError = argdef.MalformedDefinitionError
	UnknownTypeError         = types.UnknownTypeError
)

// ErrMissingValue is wrapped by an InvalidValueError when an option that
// requires a value is the last token or is followed by another flag.
var ErrMissingValue = errors.New("missing value")

// DuplicateAliasError is returned when a flag alias or command name is
// declared twice on the same command.
type DuplicateAliasError struct {
	Alias   string
	Command string
}

func (e *DuplicateAliasError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("duplicate alias %q", e.Alias)
	}
	return fmt.Sprintf("duplicate alias %q on command %q", e.Alias, e.Command)
}

// usageError is implemented by every error caused by user input rather
// than by the CLI definition.
type usageError interface {
	error
	usageError()
}

// IsUsageError reports whether err was caused by the supplied tokens, as
// opposed to a broken command definition.
func IsUsageError(err error) bool {
	var u usageError
	return errors.As(err, &u)
}

// UnknownCommandError is returned for a positional token that matches no
// child command and no remaining argument.
type UnknownCommandError struct {
	Token string
	// Command is the path of the command that was being resolved.
	Command string
	// Suggestion is the closest known command name, if any.
	Suggestion string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("Unknown command: %s", e.Token)
}

func (*UnknownCommandError) usageError() {}

// UnknownOptionError is returned for a flag that matches no visible option.
type UnknownOptionError struct {
	Token      string
	Command    string
	Suggestion string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("Unknown option: %s", e.Token)
}

func (*UnknownOptionError) usageError() {}

// ConflictingOptionsError is returned when two options that exclude each
// other are both supplied.
type ConflictingOptionsError struct {
	Option   string
	Conflict string
}

func (e *ConflictingOptionsError) Error() string {
	return fmt.Sprintf("Option %s conflicts with option %s", e.Option, e.Conflict)
}

func (*ConflictingOptionsError) usageError() {}

// MissingRequiredOptionError names a required option that was not supplied.
type MissingRequiredOptionError struct {
	Option string
}

func (e *MissingRequiredOptionError) Error() string {
	return fmt.Sprintf("Missing required option: %s", e.Option)
}

func (*MissingRequiredOptionError) usageError() {}

// MissingArgumentError names a required positional argument that was not
// supplied.
type MissingArgumentError struct {
	Argument string
	Command  string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("Missing argument: %s", e.Argument)
}

func (*MissingArgumentError) usageError() {}

// InvalidValueError is returned when a value cannot be coerced to the
// declared type. Exactly one of Option or Argument is set.
type InvalidValueError struct {
	Option   string
	Argument string
	Type     string
	Value    string
	Err      error
}

func (e *InvalidValueError) Error() string {
	target := "option " + e.Option
	if e.Option == "" {
		target = "argument " + e.Argument
	}
	if errors.Is(e.Err, ErrMissingValue) {
		return fmt.Sprintf("Missing value for %s: expected %s", target, e.Type)
	}
	return fmt.Sprintf("Invalid value %q for %s: expected %s", e.Value, target, e.Type)
}

func (e *InvalidValueError) Unwrap() error {
	return e.Err
}

func (*InvalidValueError) usageError() {}
