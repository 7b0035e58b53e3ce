// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package help

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/yeetrun/cmdtree/pkg/command"
)

// Capabilities selects the entry points Install adds.
type Capabilities uint8

const (
	// Help adds "-h, --help", which prints help and terminates with 0.
	Help Capabilities = 1 << iota
	// Version adds "-V, --version", which prints the version and
	// terminates with 0.
	Version
	// HelpCommand adds "help [command]".
	HelpCommand

	All = Help | Version | HelpCommand
)

// Install adds the selected help entry points to c and returns c. The
// flags are global, so every descendant of c answers to them; the help
// command is added on c only. Clashes with existing flags or commands
// become definition errors on c.
func Install(c *command.Command, out io.Writer, caps Capabilities) *command.Command {
	r := Renderer{Out: out, Color: !color.NoColor}
	if caps&Help != 0 {
		c.Option("-h, --help [arg:boolean]", "Show this help.", command.OptionConfig{
			Standalone: true,
			Global:     true,
			Action: func(ctx context.Context, res *command.Result) (command.Signal, error) {
				if v, _ := res.Option("help"); v == false {
					return command.Continue, nil
				}
				return command.Terminate(0), r.Render(Assemble(res.Command))
			},
		})
	}
	if caps&Version != 0 {
		c.Option("-V, --version [arg:boolean]", "Show the version number for this program.", command.OptionConfig{
			Standalone: true,
			Global:     true,
			Action: func(ctx context.Context, res *command.Result) (command.Signal, error) {
				if v, _ := res.Option("version"); v == false {
					return command.Continue, nil
				}
				_, err := fmt.Fprintln(out, res.Command.GetVersion())
				return command.Terminate(0), err
			},
		})
	}
	if caps&HelpCommand != 0 {
		c.AddCommand("help [command:command]", newHelpCommand(c, r))
	}
	return c
}

func newHelpCommand(parent *command.Command, r Renderer) *command.Command {
	return command.New("help").
		Description("Show this help or the help of a sub-command.").
		Type("command", command.CommandListType(parent)).
		Action(func(ctx context.Context, res *command.Result) (command.Signal, error) {
			target := parent
			if len(res.Args) > 0 {
				sub, err := parent.GetCommand(res.Args[0].(string))
				if err != nil {
					return command.Continue, err
				}
				target = sub
			}
			return command.Terminate(0), r.Render(Assemble(target))
		})
}

// NewDefault returns a command named name with all help entry points
// installed. Children added with a nil command get their own help
// command, and so do their children.
func NewDefault(name string, out io.Writer) *command.Command {
	var factory func(string) *command.Command
	factory = func(name string) *command.Command {
		return Install(command.New(name), out, HelpCommand).SetChildFactory(factory)
	}
	return Install(command.New(name), out, All).SetChildFactory(factory)
}
